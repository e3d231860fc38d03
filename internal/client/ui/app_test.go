package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/abgdnv/inventory/internal/client/api"
	"github.com/abgdnv/inventory/internal/client/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductAPI struct {
	mock.Mock
}

func (m *MockProductAPI) FetchAll(ctx context.Context) ([]api.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]api.Product)
	return products, args.Error(1)
}

func (m *MockProductAPI) Add(ctx context.Context, name string, inventory int64) (*api.Product, error) {
	args := m.Called(ctx, name, inventory)
	product, _ := args.Get(0).(*api.Product)
	return product, args.Error(1)
}

func (m *MockProductAPI) UpdateInventory(ctx context.Context, id string, inventory int64) (*api.Product, error) {
	args := m.Called(ctx, id, inventory)
	product, _ := args.Get(0).(*api.Product)
	return product, args.Error(1)
}

// alerts collects alert messages
type alerts []string

func (a *alerts) Alert(message string) { *a = append(*a, message) }

func ptr(v int64) *int64 { return &v }

func newApp(client ProductAPI) (*App, *state.Store, *alerts) {
	store := state.New()
	got := new(alerts)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewApp(client, store, got, logger), store, got
}

var initial = []api.Product{{ID: "p1", Name: "Widget", Inventory: 10}}

func Test_App_Load(t *testing.T) {
	t.Run("success populates state", func(t *testing.T) {
		// given
		client := new(MockProductAPI)
		client.On("FetchAll", mock.Anything).Return(initial, nil).Once()
		app, store, got := newApp(client)

		// when
		err := app.Load(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, initial, store.Products())
		assert.Empty(t, *got)
		client.AssertExpectations(t)
	})

	t.Run("failure keeps prior state and alerts", func(t *testing.T) {
		// given
		client := new(MockProductAPI)
		client.On("FetchAll", mock.Anything).Return(nil, errors.New("connection refused")).Once()
		app, store, got := newApp(client)
		store.SetProducts(initial)

		// when
		err := app.Load(context.Background())

		// then
		require.Error(t, err)
		assert.Equal(t, initial, store.Products())
		assert.Equal(t, alerts{AlertFetchFailed}, *got)
		client.AssertExpectations(t)
	})
}

func Test_App_SubmitAdd(t *testing.T) {
	testCases := []struct {
		name       string
		form       state.Form
		setup      func(m *MockProductAPI)
		wantErr    bool
		wantAlerts alerts
		wantForm   state.Form
		wantList   []api.Product
	}{
		{
			name: "success resets form and refetches",
			form: state.Form{Name: "Gadget", Inventory: ptr(5)},
			setup: func(m *MockProductAPI) {
				m.On("Add", mock.Anything, "Gadget", int64(5)).Return(&api.Product{ID: "p2", Name: "Gadget", Inventory: 5}, nil).Once()
				m.On("FetchAll", mock.Anything).Return(append(initial, api.Product{ID: "p2", Name: "Gadget", Inventory: 5}), nil).Once()
			},
			wantForm: state.Form{},
			wantList: append(initial, api.Product{ID: "p2", Name: "Gadget", Inventory: 5}),
		},
		{
			name:       "empty name is rejected locally",
			form:       state.Form{Inventory: ptr(5)},
			setup:      func(*MockProductAPI) {},
			wantErr:    true,
			wantAlerts: alerts{AlertInvalidForm},
			wantForm:   state.Form{Inventory: ptr(5)},
			wantList:   initial,
		},
		{
			name:       "missing inventory is rejected locally",
			form:       state.Form{Name: "Gadget"},
			setup:      func(*MockProductAPI) {},
			wantErr:    true,
			wantAlerts: alerts{AlertInvalidForm},
			wantForm:   state.Form{Name: "Gadget"},
			wantList:   initial,
		},
		{
			name: "server conflict alerts and keeps state",
			form: state.Form{Name: "Widget", Inventory: ptr(1)},
			setup: func(m *MockProductAPI) {
				m.On("Add", mock.Anything, "Widget", int64(1)).Return(nil, &api.APIError{StatusCode: 409, Message: "Product already exists"}).Once()
			},
			wantErr:    true,
			wantAlerts: alerts{AlertAddFailed},
			wantForm:   state.Form{Name: "Widget", Inventory: ptr(1)},
			wantList:   initial,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			client := new(MockProductAPI)
			tc.setup(client)
			app, store, got := newApp(client)
			store.SetProducts(initial)
			store.SetForm(tc.form)

			// when
			err := app.SubmitAdd(context.Background())

			// then
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantAlerts, *got)
			assert.Equal(t, tc.wantForm, store.Form())
			assert.Equal(t, tc.wantList, store.Products())
			client.AssertExpectations(t)
		})
	}
}

func Test_App_SubmitAdd_InvalidFormSendsNothing(t *testing.T) {
	client := new(MockProductAPI)
	app, store, _ := newApp(client)
	store.SetForm(state.Form{Name: "", Inventory: ptr(1)})

	err := app.SubmitAdd(context.Background())

	assert.ErrorIs(t, err, ErrInvalidForm)
	client.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func Test_App_Modify(t *testing.T) {
	t.Run("success clears selection and refetches", func(t *testing.T) {
		// given
		client := new(MockProductAPI)
		updated := []api.Product{{ID: "p1", Name: "Widget", Inventory: 3}}
		client.On("UpdateInventory", mock.Anything, "p1", int64(3)).Return(&updated[0], nil).Once()
		client.On("FetchAll", mock.Anything).Return(updated, nil).Once()
		app, store, got := newApp(client)
		store.SetProducts(initial)

		// when
		err := app.Modify(context.Background(), initial[0], 3)

		// then
		require.NoError(t, err)
		_, selected := store.Selected()
		assert.False(t, selected)
		assert.Equal(t, updated, store.Products())
		assert.Empty(t, *got)
		client.AssertExpectations(t)
	})

	t.Run("failure alerts and clears selection", func(t *testing.T) {
		// given
		client := new(MockProductAPI)
		client.On("UpdateInventory", mock.Anything, "p1", int64(3)).Return(nil, &api.APIError{StatusCode: 404, Message: "Product not found"}).Once()
		app, store, got := newApp(client)
		store.SetProducts(initial)

		// when
		err := app.Modify(context.Background(), initial[0], 3)

		// then
		require.Error(t, err)
		_, selected := store.Selected()
		assert.False(t, selected)
		assert.Equal(t, initial, store.Products())
		assert.Equal(t, alerts{AlertUpdateFailed}, *got)
		client.AssertNotCalled(t, "FetchAll", mock.Anything)
	})
}
