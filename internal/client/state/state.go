// Package state holds the client-side view of the inventory.
package state

import (
	"slices"
	"sync"

	"github.com/abgdnv/inventory/internal/client/api"
)

// Form holds the fields of the add-product form.
// Inventory is nil until the user enters a number.
type Form struct {
	Name      string
	Inventory *int64
}

// Valid reports whether the form can be submitted.
func (f Form) Valid() bool {
	return f.Name != "" && f.Inventory != nil
}

// Store is an in-memory, possibly stale copy of the product list plus form and selection state.
// It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	products    []api.Product
	form        Form
	selected    *api.Product
	subscribers []func([]api.Product)
}

func New() *Store {
	return &Store{}
}

// Products returns a copy of the current product list.
func (s *Store) Products() []api.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

// SetProducts replaces the product list and notifies subscribers with the new list.
func (s *Store) SetProducts(products []api.Product) {
	s.mu.Lock()
	s.products = slices.Clone(products)
	subscribers := slices.Clone(s.subscribers)
	snapshot := slices.Clone(s.products)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

// Subscribe registers fn to be called after every SetProducts.
func (s *Store) Subscribe(fn func([]api.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) Form() Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

func (s *Store) SetForm(f Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f
}

// ResetForm clears the add-product form.
func (s *Store) ResetForm() {
	s.SetForm(Form{})
}

// Selected returns the selected product, if any.
func (s *Store) Selected() (api.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return api.Product{}, false
	}
	return *s.selected, true
}

func (s *Store) Select(p api.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &p
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}
