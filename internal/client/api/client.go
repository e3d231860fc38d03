// Package api is the HTTP client of the inventory REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const productsPath = "/api/products"

// Product is a product as served by the inventory API.
type Product struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Inventory int64  `json:"inventory"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// Client calls the inventory API. Requests are never retried.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a Client for the provided base URL, e.g. http://localhost:5000.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchAll returns every product.
func (c *Client) FetchAll(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, productsPath+"/", nil, http.StatusOK, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Add creates a product and returns the stored record.
func (c *Client) Add(ctx context.Context, name string, inventory int64) (*Product, error) {
	body := struct {
		Name      string `json:"name"`
		Inventory int64  `json:"inventory"`
	}{Name: name, Inventory: inventory}
	var created Product
	if err := c.do(ctx, http.MethodPost, productsPath+"/addprod", body, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInventory overwrites the inventory of product id and returns the updated record.
func (c *Client) UpdateInventory(ctx context.Context, id string, inventory int64) (*Product, error) {
	body := struct {
		Inventory int64 `json:"inventory"`
	}{Inventory: inventory}
	var updated Product
	path := productsPath + "/update/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, body, http.StatusOK, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		return newAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func (c *Client) resolve(path string) string {
	ref := &url.URL{Path: strings.TrimSuffix(c.baseURL.Path, "/") + path}
	return c.baseURL.ResolveReference(ref).String()
}
