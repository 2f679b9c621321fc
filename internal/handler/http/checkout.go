package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Balamathankumar/store-front/internal/domain"
	"github.com/Balamathankumar/store-front/internal/gateway"
	"github.com/Balamathankumar/store-front/internal/service"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
	"github.com/Balamathankumar/store-front/pkg/httputil"
	"github.com/Balamathankumar/store-front/pkg/validator"
)

// OrderTracker is the tracking slice of the catalog gateway.
type OrderTracker interface {
	TrackOrder(ctx context.Context, input gateway.TrackOrderInput) (*domain.OrderStatus, error)
}

// CheckoutHandler handles checkout and order tracking endpoints.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	tracker  OrderTracker
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(checkout *service.CheckoutService, tracker OrderTracker, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		tracker:  tracker,
		logger:   logger,
	}
}

// PlaceOrderRequest is the JSON request body for checkout.
type PlaceOrderRequest struct {
	CustomerID    *int64 `json:"customer_id"`
	Email         string `json:"email" validate:"required,email"`
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// PlaceOrder handles POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.PlaceOrderInput{
		CustomerID: req.CustomerID,
		Email:      req.Email,
		ShippingAddress: domain.ShippingAddress{
			Name:       req.Name,
			Address:    req.Address,
			City:       req.City,
			PostalCode: req.PostalCode,
			Phone:      req.Phone,
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	conf, err := h.checkout.PlaceOrder(r.Context(), sessionID(r), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: conf})
}

// TrackOrder handles GET /api/v1/orders/track?orderId=&email=
func (h *CheckoutHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("orderId must be a positive integer"), h.logger)
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("email is required"), h.logger)
		return
	}

	status, err := h.tracker.TrackOrder(r.Context(), gateway.TrackOrderInput{OrderID: orderID, Email: email})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: status})
}
