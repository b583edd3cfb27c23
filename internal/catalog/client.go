// Package catalog implements the HTTP client for the remote catalog/order
// service consumed by the query controller and checkout flow.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/estorelabs/storefront/pkg/config"
	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
)

// Client calls the catalog service. All failures are reported as typed
// network errors so the view layer can route them to the failure view.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg config.CatalogConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ListAll returns every product in the catalog.
func (c *Client) ListAll(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product.
func (c *Client) GetByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// QueryByFilter returns products matching the text under the given mode.
// Category mode filters server-side with an exact-match param (omitted for
// "All"); search mode fetches the full list and filters by case-insensitive
// substring over name and category.
func (c *Client) QueryByFilter(ctx context.Context, text string, mode FilterMode) ([]Product, error) {
	switch mode {
	case FilterCategory:
		params := url.Values{}
		if text != "" && text != DefaultCategory {
			params.Set("category", text)
		}
		var products []Product
		if err := c.do(ctx, http.MethodGet, "/products", params, nil, &products); err != nil {
			return nil, err
		}
		return products, nil
	case FilterSearch:
		products, err := c.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if text == "" {
			return products, nil
		}
		lower := strings.ToLower(text)
		filtered := make([]Product, 0, len(products))
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), lower) ||
				strings.Contains(strings.ToLower(p.Category), lower) {
				filtered = append(filtered, p)
			}
		}
		return filtered, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeLogic, fmt.Sprintf("unknown filter mode %q", mode))
	}
}

// ListCategories returns the catalog's category labels.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// PlaceOrder submits an order snapshot and returns the confirmation.
func (c *Client) PlaceOrder(ctx context.Context, order Order) (*Confirmation, error) {
	var confirmation Confirmation
	if err := c.do(ctx, http.MethodPost, "/orders", nil, order, &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

// CreateProduct adds a product via the admin surface.
func (c *Client) CreateProduct(ctx context.Context, product Product) (*Product, error) {
	var created Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces a product via the admin surface.
func (c *Client) UpdateProduct(ctx context.Context, id int64, product Product) (*Product, error) {
	var updated Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), nil, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product via the admin surface.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, nil)
}

// CreateCategory adds a category via the admin surface.
func (c *Client) CreateCategory(ctx context.Context, category Category) (*Category, error) {
	var created Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory replaces a category via the admin surface.
func (c *Client) UpdateCategory(ctx context.Context, id int64, category Category) (*Category, error) {
	var updated Category
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), nil, category, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category via the admin surface.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, dest any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("%s %s", method, path))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s %s: not found", method, path))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return pkgerrors.New(pkgerrors.CodeNetwork, fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("%s %s: decoding response", method, path))
	}
	return nil
}
