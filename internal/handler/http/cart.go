package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Balamathankumar/store-front/internal/cart"
	"github.com/Balamathankumar/store-front/internal/domain"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
	"github.com/Balamathankumar/store-front/pkg/httputil"
	"github.com/Balamathankumar/store-front/pkg/validator"
)

// ProductFetcher is the slice of the catalog gateway the cart handler needs
// to snapshot products server-side at add time.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetCombo(ctx context.Context, id int64) (*domain.Product, error)
}

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	carts   *cart.Manager
	catalog ProductFetcher
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(carts *cart.Manager, catalog ProductFetcher, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
// The product snapshot is fetched server-side; clients only name the item.
type AddItemRequest struct {
	ID       int64 `json:"id" validate:"required,gt=0"`
	Grams    int   `json:"grams"`
	Quantity int   `json:"quantity"`
	Combo    bool  `json:"combo"`
}

// UpdateQuantityRequest is the JSON request body for setting a line quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ChangeWeightRequest is the JSON request body for re-weighing a line.
type ChangeWeightRequest struct {
	NewGrams int `json:"new_grams" validate:"required"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	state := h.carts.Get(r.Context(), sessionID(r)).State()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	weight := domain.DefaultWeight
	if req.Grams != 0 {
		var ok bool
		if weight, ok = domain.ParseWeightGrams(req.Grams); !ok {
			httputil.WriteError(w, r, apperrors.InvalidInput("grams must be one of 50, 100, 200, 250, 500"), h.logger)
			return
		}
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("quantity must be at least 1"), h.logger)
		return
	}

	var (
		product *domain.Product
		err     error
	)
	if req.Combo {
		product, err = h.catalog.GetCombo(r.Context(), req.ID)
	} else {
		product, err = h.catalog.GetProduct(r.Context(), req.ID)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	state := h.carts.Get(r.Context(), sessionID(r)).AddLine(r.Context(), product, weight, quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productID}/{grams}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, weight, ok := h.lineKey(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	state := h.carts.Get(r.Context(), sessionID(r)).SetQuantity(r.Context(), productID, weight, req.Quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// ChangeWeight handles PATCH /api/v1/cart/items/{productID}/{grams}
func (h *CartHandler) ChangeWeight(w http.ResponseWriter, r *http.Request) {
	productID, oldWeight, ok := h.lineKey(w, r)
	if !ok {
		return
	}

	var req ChangeWeightRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	newWeight, ok := domain.ParseWeightGrams(req.NewGrams)
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("new_grams must be one of 50, 100, 200, 250, 500"), h.logger)
		return
	}

	state := h.carts.Get(r.Context(), sessionID(r)).ChangeWeight(r.Context(), productID, oldWeight, newWeight)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}/{grams}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, weight, ok := h.lineKey(w, r)
	if !ok {
		return
	}

	state := h.carts.Get(r.Context(), sessionID(r)).RemoveLine(r.Context(), productID, weight)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	state := h.carts.Get(r.Context(), sessionID(r)).Clear(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// ToggleCart handles POST /api/v1/cart/toggle
func (h *CartHandler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	state := h.carts.Get(r.Context(), sessionID(r)).ToggleOpen()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// lineKey parses the {productID}/{grams} URL pair shared by the line-item
// endpoints.
func (h *CartHandler) lineKey(w http.ResponseWriter, r *http.Request) (int64, domain.Weight, bool) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productID"))
	if !ok {
		return 0, 0, false
	}

	weight, ok := domain.ParseWeight(chi.URLParam(r, "grams"))
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("grams must be one of 50, 100, 200, 250, 500"), h.logger)
		return 0, 0, false
	}

	return productID, weight, true
}
