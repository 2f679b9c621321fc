package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Balamathankumar/store-front/internal/domain"
	"github.com/Balamathankumar/store-front/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ListOptions narrows a catalog listing.
type ListOptions struct {
	Category string
	Page     int
	Limit    int
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Items      []domain.Product `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

// Category is a catalog category with its product count.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TrackOrderInput identifies an order for tracking: the order ID plus the
// email it was placed under.
type TrackOrderInput struct {
	OrderID int64  `json:"orderId" validate:"required,gt=0"`
	Email   string `json:"email" validate:"required,email"`
}

// CatalogGateway talks to the commerce backend's storefront API. The backend
// owns the catalog and all orders; this gateway is a thin, failure-mapping
// client over it.
type CatalogGateway struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewCatalogGateway creates a catalog gateway against the given base URL.
func NewCatalogGateway(client HTTPDoer, baseURL string, logger *slog.Logger) *CatalogGateway {
	return &CatalogGateway{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// ListProducts fetches a page of the catalog, optionally filtered by category.
func (g *CatalogGateway) ListProducts(ctx context.Context, opts ListOptions) (*ProductPage, error) {
	q := url.Values{}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	endpoint := g.baseURL + "/items"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var page ProductPage
	if err := g.getJSON(ctx, endpoint, &page); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &page, nil
}

// GetProduct fetches a single catalog item by ID.
func (g *CatalogGateway) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := g.getJSON(ctx, fmt.Sprintf("%s/items/%d", g.baseURL, id), &p); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// GetCombo fetches a combo bundle by ID. Combos live on their own endpoint
// and always come back with IsCombo set.
func (g *CatalogGateway) GetCombo(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := g.getJSON(ctx, fmt.Sprintf("%s/combos/%d", g.baseURL, id), &p); err != nil {
		return nil, fmt.Errorf("get combo %d: %w", id, err)
	}
	p.IsCombo = true
	return &p, nil
}

// Search runs a free-text catalog search.
func (g *CatalogGateway) Search(ctx context.Context, query string) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("q", query)

	var result struct {
		Items []domain.Product `json:"items"`
	}
	if err := g.getJSON(ctx, g.baseURL+"/items/search?"+q.Encode(), &result); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return result.Items, nil
}

// Featured fetches the curated featured-items list.
func (g *CatalogGateway) Featured(ctx context.Context) ([]domain.Product, error) {
	var result struct {
		Items []domain.Product `json:"items"`
	}
	if err := g.getJSON(ctx, g.baseURL+"/items/featured", &result); err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return result.Items, nil
}

// Categories fetches the category list with product counts.
func (g *CatalogGateway) Categories(ctx context.Context) ([]Category, error) {
	var result struct {
		Categories []Category `json:"categories"`
	}
	if err := g.getJSON(ctx, g.baseURL+"/categories", &result); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return result.Categories, nil
}

// CreateOrder posts an order to the backend and returns its confirmation.
func (g *CatalogGateway) CreateOrder(ctx context.Context, order *domain.OrderRequest) (*domain.OrderConfirmation, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/checkout", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call checkout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "checkout")
	}

	var conf domain.OrderConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
		return nil, fmt.Errorf("decode order confirmation: %w", err)
	}

	g.logger.InfoContext(ctx, "order placed",
		slog.Int64("order_id", conf.OrderID),
		slog.Int64("total", conf.Total),
	)

	return &conf, nil
}

// TrackOrder looks up the status of a previously placed order.
func (g *CatalogGateway) TrackOrder(ctx context.Context, input TrackOrderInput) (*domain.OrderStatus, error) {
	q := url.Values{}
	q.Set("orderId", strconv.FormatInt(input.OrderID, 10))
	q.Set("email", input.Email)

	var status domain.OrderStatus
	if err := g.getJSON(ctx, g.baseURL+"/orders/track?"+q.Encode(), &status); err != nil {
		return nil, fmt.Errorf("track order %d: %w", input.OrderID, err)
	}
	return &status, nil
}

// getJSON issues a GET and decodes a 200 response into out.
func (g *CatalogGateway) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "catalog")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
