package web

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func Test_RequestIDInjector(t *testing.T) {
	testCases := []struct {
		name       string
		incomingID string
	}{
		{name: "generates id", incomingID: ""},
		{name: "reuses incoming id", incomingID: "abc-123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			h := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen, _ = GetRequestID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incomingID != "" {
				req.Header.Set("X-Request-Id", tc.incomingID)
			}
			rr := httptest.NewRecorder()
			// when
			h.ServeHTTP(rr, req)
			// then
			require.NotEmpty(t, seen)
			if tc.incomingID != "" {
				assert.Equal(t, tc.incomingID, seen)
			}
			assert.Equal(t, seen, rr.Header().Get("X-Request-Id"))
		})
	}
}

func Test_Recoverer(t *testing.T) {
	// given
	h := Recoverer(discard)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	// when
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}

func Test_DecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}
	testCases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "valid object", payload: `{"name":"Widget"}`},
		{name: "malformed", payload: `{"name":`, wantErr: true},
		{name: "trailing value", payload: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "empty", payload: ``, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.payload))
			var dst body
			// when
			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			// then
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Widget", dst.Name)
		})
	}
}

func Test_ValidationErrors(t *testing.T) {
	type dto struct {
		Name string `validate:"required"`
	}
	err := validator.New().Struct(dto{})

	fields, ok := ValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"Name": "failed on rule: required"}, fields)

	_, ok = ValidationErrors(errors.New("other"))
	assert.False(t, ok)
}

func Test_StructuredLogger(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := StructuredLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	// when
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))
	// then
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/api/products"`)
}
