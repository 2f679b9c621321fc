package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Balamathankumar/store-front/internal/cart"
	"github.com/Balamathankumar/store-front/internal/domain"
	"github.com/Balamathankumar/store-front/internal/event"
	"github.com/Balamathankumar/store-front/internal/gateway"
	redisrepo "github.com/Balamathankumar/store-front/internal/repository/redis"
	"github.com/Balamathankumar/store-front/internal/service"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
	pkgkafka "github.com/Balamathankumar/store-front/pkg/kafka"
)

// ============================================================================
// Mocks
// ============================================================================

type mockOrderPlacer struct {
	mock.Mock
}

func (m *mockOrderPlacer) CreateOrder(ctx context.Context, order *domain.OrderRequest) (*domain.OrderConfirmation, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderConfirmation), args.Error(1)
}

type mockOrderTracker struct {
	mock.Mock
}

func (m *mockOrderTracker) TrackOrder(ctx context.Context, input gateway.TrackOrderInput) (*domain.OrderStatus, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderStatus), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

func setupCheckoutRouter(t *testing.T, backend *mockOrderPlacer, tracker *mockOrderTracker) (*chi.Mux, *cart.Manager) {
	t.Helper()
	logger := testLogger()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := redisrepo.NewSnapshotRepository(client, time.Hour)
	carts := cart.NewManager(repo, logger)

	// Kafka producer that will fail silently in tests (no real broker).
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)

	checkout := service.NewCheckoutService(carts, backend, producer, logger)
	handler := NewCheckoutHandler(checkout, tracker, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(Session(time.Hour))
		r.Post("/checkout", handler.PlaceOrder)
		r.Get("/orders/track", handler.TrackOrder)
	})
	return r, carts
}

func validOrderRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		Email:      "a@b.com",
		Name:       "Asha",
		Address:    "1 Main St",
		City:       "Chennai",
		PostalCode: "600001",
	}
}

func fillSessionCart(t *testing.T, carts *cart.Manager) {
	t.Helper()
	ctx := context.Background()
	carts.Get(ctx, "test-session").AddLine(ctx,
		&domain.Product{ID: 1, Name: "Almonds", RetailPrice: 100}, domain.Weight250, 2)
}

// ============================================================================
// PlaceOrder
// ============================================================================

func TestPlaceOrder_Success(t *testing.T) {
	backend := new(mockOrderPlacer)
	tracker := new(mockOrderTracker)
	router, carts := setupCheckoutRouter(t, backend, tracker)
	fillSessionCart(t, carts)

	backend.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&domain.OrderConfirmation{OrderID: 1001, Status: "CONFIRMED", Total: 440}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/checkout", validOrderRequest(), sessionCookie())

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orderId":1001`)

	// Cart is empty after a confirmed order.
	assert.Empty(t, carts.Get(context.Background(), "test-session").State().Items)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	backend := new(mockOrderPlacer)
	router, _ := setupCheckoutRouter(t, backend, new(mockOrderTracker))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/checkout", validOrderRequest(), sessionCookie())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
	backend.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestPlaceOrder_BackendFailure_Returns502AndKeepsCart(t *testing.T) {
	backend := new(mockOrderPlacer)
	router, carts := setupCheckoutRouter(t, backend, new(mockOrderTracker))
	fillSessionCart(t, carts)

	backend.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, apperrors.Unavailable("checkout: backend down"))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/checkout", validOrderRequest(), sessionCookie())

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORDER_FAILED")
	assert.Len(t, carts.Get(context.Background(), "test-session").State().Items, 1)
}

func TestPlaceOrder_ValidationError(t *testing.T) {
	router, _ := setupCheckoutRouter(t, new(mockOrderPlacer), new(mockOrderTracker))

	req := validOrderRequest()
	req.Email = "not-an-email"
	rec := doJSON(t, router, http.MethodPost, "/api/v1/checkout", req, sessionCookie())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

// ============================================================================
// TrackOrder
// ============================================================================

func TestTrackOrder_Success(t *testing.T) {
	tracker := new(mockOrderTracker)
	router, _ := setupCheckoutRouter(t, new(mockOrderPlacer), tracker)

	tracker.On("TrackOrder", mock.Anything, gateway.TrackOrderInput{OrderID: 1001, Email: "a@b.com"}).
		Return(&domain.OrderStatus{OrderID: 1001, Status: "SHIPPED", Total: 440}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders/track?orderId=1001&email=a@b.com", nil, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"SHIPPED"`)
}

func TestTrackOrder_MissingParams(t *testing.T) {
	router, _ := setupCheckoutRouter(t, new(mockOrderPlacer), new(mockOrderTracker))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders/track?email=a@b.com", nil, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders/track?orderId=1001", nil, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrackOrder_NotFound(t *testing.T) {
	tracker := new(mockOrderTracker)
	router, _ := setupCheckoutRouter(t, new(mockOrderPlacer), tracker)

	tracker.On("TrackOrder", mock.Anything, mock.Anything).
		Return(nil, apperrors.NotFound("order", "1002"))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders/track?orderId=1002&email=a@b.com", nil, sessionCookie())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
