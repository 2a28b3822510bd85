// Package catalog fetches product metadata from the remote catalog
// service and indexes it by numeric product id.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jmcallister/salescope/internal/model"
	"github.com/jmcallister/salescope/internal/service"
)

// DefaultLimit is the default number of products requested per fetch.
const DefaultLimit = 100

// DefaultTimeout bounds the single catalog request. The caller treats
// expiry like any other fetch failure.
const DefaultTimeout = 30 * time.Second

var _ service.ProductFetcher = (*Client)(nil)

// Client talks to the product catalog endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
}

// Catalog API response types.
type productListing struct {
	Products []listedProduct `json:"products"`
}

type listedProduct struct {
	ID       any      `json:"id"`
	Rating   *float64 `json:"rating"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
}

// NewClient creates a catalog client for the given base URL. A limit or
// timeout of zero selects the default.
func NewClient(baseURL string, limit int, timeout time.Duration) *Client {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		limit:   limit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchProducts performs a single GET against the product listing
// endpoint. There is no retry; the caller decides how to degrade when an
// error comes back.
func (c *Client) FetchProducts(ctx context.Context) ([]model.CatalogProduct, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog URL: %w", err)
	}
	q := u.Query()
	q.Set("limit", fmt.Sprintf("%d", c.limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}

	slog.Debug("Requesting product catalog", "url", u.String(), "limit", c.limit)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog API error: %d - %s", resp.StatusCode, string(body))
	}

	var listing productListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	products := make([]model.CatalogProduct, 0, len(listing.Products))
	for _, p := range listing.Products {
		id, ok := coerceID(p.ID)
		if !ok {
			// Entries without an integer id cannot be joined to the feed.
			slog.Debug("Skipping catalog entry with non-integer id", "id", p.ID)
			continue
		}
		products = append(products, model.CatalogProduct{
			ID:       id,
			Title:    p.Title,
			Category: p.Category,
			Brand:    p.Brand,
			Rating:   p.Rating,
		})
	}

	slog.Info("Fetched product catalog", "products", len(products))
	return products, nil
}

// coerceID turns a loosely-typed catalog id into an integer key. JSON
// numbers truncate; numeric strings parse; anything else is rejected.
func coerceID(v any) (int, bool) {
	switch id := v.(type) {
	case float64:
		return int(id), true
	case string:
		n, err := strconv.Atoi(id)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// BuildMapping indexes catalog products by id for enrichment lookups.
func BuildMapping(products []model.CatalogProduct) map[int]model.CatalogProduct {
	mapping := make(map[int]model.CatalogProduct, len(products))
	for _, p := range products {
		mapping[p.ID] = p
	}
	return mapping
}
