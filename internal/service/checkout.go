package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Balamathankumar/store-front/internal/cart"
	"github.com/Balamathankumar/store-front/internal/domain"
	"github.com/Balamathankumar/store-front/internal/event"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
)

// OrderPlacer is the slice of the commerce backend the checkout flow needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, order *domain.OrderRequest) (*domain.OrderConfirmation, error)
}

// PlaceOrderInput holds the checkout form fields.
type PlaceOrderInput struct {
	CustomerID      *int64                 `json:"customer_id"`
	Email           string                 `json:"email" validate:"required,email"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method"`
	Notes           string                 `json:"notes"`
}

// CheckoutService turns a session's cart into a backend order. The cart is
// cleared only after the backend confirms the order; any failure leaves it
// intact so the shopper can retry.
type CheckoutService struct {
	carts    *cart.Manager
	backend  OrderPlacer
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(carts *cart.Manager, backend OrderPlacer, producer *event.Producer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		backend:  backend,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrder submits the session's cart as an order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, input *PlaceOrderInput) (*domain.OrderConfirmation, error) {
	if input == nil {
		return nil, apperrors.InvalidInput("checkout input is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.ShippingAddress.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.ShippingAddress.Address == "" {
		return nil, apperrors.InvalidInput("address is required")
	}
	if input.ShippingAddress.City == "" {
		return nil, apperrors.InvalidInput("city is required")
	}
	if input.ShippingAddress.PostalCode == "" {
		return nil, apperrors.InvalidInput("postal code is required")
	}

	store := s.carts.Get(ctx, sessionID)
	state := store.State()
	if len(state.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	items := make([]domain.OrderItem, 0, len(state.Items))
	for _, line := range state.Items {
		if line.Product == nil {
			s.logger.WarnContext(ctx, "skipping cart line without product snapshot",
				slog.String("session_id", sessionID),
				slog.Int64("product_id", line.ProductID),
			)
			continue
		}
		items = append(items, domain.OrderItem{
			ItemID:   line.ProductID,
			Quantity: line.Quantity,
			Grams:    line.Weight.Grams(),
			Price:    domain.UnitPrice(line.Product, line.Weight),
		})
	}
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("cart has no orderable items")
	}

	method := strings.ToUpper(input.PaymentMethod)
	if method == "" {
		method = domain.PaymentCashOnDelivery
	}

	order := &domain.OrderRequest{
		CustomerID:      input.CustomerID,
		CustomerEmail:   input.Email,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   method,
		Notes:           input.Notes,
	}

	conf, err := s.backend.CreateOrder(ctx, order)
	if err != nil {
		// The cart is deliberately left untouched so the shopper can retry.
		s.logger.ErrorContext(ctx, "order submission failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.OrderFailed(fmt.Sprintf("order could not be placed: %v", err))
	}

	store.Clear(ctx)

	if err := s.producer.PublishOrderPlaced(ctx, sessionID, conf, state.TotalItems); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.Int64("order_id", conf.OrderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("session_id", sessionID),
		slog.Int64("order_id", conf.OrderID),
		slog.Int64("total", conf.Total),
	)

	return conf, nil
}
