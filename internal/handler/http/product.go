package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Balamathankumar/store-front/internal/domain"
	"github.com/Balamathankumar/store-front/internal/gateway"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
	"github.com/Balamathankumar/store-front/pkg/httputil"
)

// CatalogAPI is the catalog gateway surface the product handler exposes to
// shoppers. It mirrors gateway.CatalogGateway so tests can substitute a fake.
type CatalogAPI interface {
	ProductFetcher
	ListProducts(ctx context.Context, opts gateway.ListOptions) (*gateway.ProductPage, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]gateway.Category, error)
}

// ProductHandler serves the catalog passthrough endpoints.
type ProductHandler struct {
	catalog CatalogAPI
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(catalog CatalogAPI, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := gateway.ListOptions{
		Category: r.URL.Query().Get("category"),
	}
	if v := r.URL.Query().Get("page"); v != "" {
		opts.Page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}

	page, err := h.catalog.ListProducts(r.Context(), opts)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// Get handles GET /api/v1/products/{productID}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// GetCombo handles GET /api/v1/combos/{comboID}
func (h *ProductHandler) GetCombo(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "comboID"))
	if !ok {
		return
	}

	combo, err := h.catalog.GetCombo(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: combo})
}

// Search handles GET /api/v1/products/search?q=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter q is required"), h.logger)
		return
	}

	items, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"items": items}})
}

// Featured handles GET /api/v1/products/featured
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Featured(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"items": items}})
}

// Categories handles GET /api/v1/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"categories": cats}})
}

// WeightOptions handles GET /api/v1/weights — the fixed tier set the UI
// renders in its weight selectors.
func (h *ProductHandler) WeightOptions(w http.ResponseWriter, r *http.Request) {
	type option struct {
		Grams int    `json:"grams"`
		Label string `json:"label"`
	}
	opts := make([]option, 0, len(domain.WeightOptions()))
	for _, wt := range domain.WeightOptions() {
		opts = append(opts, option{Grams: wt.Grams(), Label: wt.String()})
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"weights": opts}})
}
