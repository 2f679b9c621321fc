package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Balamathankumar/store-front/internal/domain"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
	"github.com/Balamathankumar/store-front/pkg/httpclient"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestGateway(t *testing.T, handler http.Handler) *CatalogGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return NewCatalogGateway(httpclient.New(cfg), srv.URL, newTestLogger())
}

// ---------------------------------------------------------------------------
// Listing and lookup
// ---------------------------------------------------------------------------

func TestListProducts_PassesFilters(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "NUT", r.URL.Query().Get("category"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "24", r.URL.Query().Get("limit"))

		json.NewEncoder(w).Encode(ProductPage{
			Items:      []domain.Product{{ID: 1, Name: "Almonds", RetailPrice: 100}},
			Total:      25,
			Page:       2,
			TotalPages: 2,
		})
	}))

	page, err := gw.ListProducts(context.Background(), ListOptions{Category: "NUT", Page: 2, Limit: 24})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Almonds", page.Items[0].Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "item not found"},
		})
	}))

	_, err := gw.GetProduct(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGetProduct_DecodesPricingLayers(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/42", r.URL.Path)
		w.Write([]byte(`{"id":42,"name":"Cashew","category":"NUT","retailPrice":100,"price250g":210,"prices":{"500":395}}`))
	}))

	p, err := gw.GetProduct(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, p.Price250g)
	assert.Equal(t, int64(210), *p.Price250g)
	assert.Equal(t, int64(395), p.Prices["500"])
	assert.Equal(t, int64(210), domain.UnitPrice(p, domain.Weight250))
}

func TestGetCombo_MarksCombo(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/combos/7", r.URL.Path)
		w.Write([]byte(`{"id":7,"name":"Festive Box","sku":"CMB-7","price":750,"retailPrice":900}`))
	}))

	p, err := gw.GetCombo(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, p.IsCombo)
	assert.Equal(t, int64(750), domain.UnitPrice(p, domain.Weight100))
}

func TestSearch_SendsQuery(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/search", r.URL.Path)
		assert.Equal(t, "cashew w320", r.URL.Query().Get("q"))
		w.Write([]byte(`{"items":[{"id":1,"name":"Cashew W320","retailPrice":100}]}`))
	}))

	items, err := gw.Search(context.Background(), "cashew w320")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestCategories(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		w.Write([]byte(`{"categories":[{"name":"NUT","count":12},{"name":"SPICE","count":8}]}`))
	}))

	cats, err := gw.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "NUT", cats[0].Name)
	assert.Equal(t, 8, cats[1].Count)
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

func TestCreateOrder_Success(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout", r.URL.Path)

		var req domain.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.PaymentCashOnDelivery, req.PaymentMethod)
		require.Len(t, req.Items, 1)
		assert.Equal(t, 250, req.Items[0].Grams)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.OrderConfirmation{OrderID: 1001, Status: "CONFIRMED", Total: 440})
	}))

	conf, err := gw.CreateOrder(context.Background(), &domain.OrderRequest{
		Items:         []domain.OrderItem{{ItemID: 1, Quantity: 2, Grams: 250, Price: 220}},
		PaymentMethod: domain.PaymentCashOnDelivery,
		ShippingAddress: domain.ShippingAddress{
			Name: "A", Address: "1 Main St", City: "Chennai", PostalCode: "600001",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), conf.OrderID)
	assert.Equal(t, int64(440), conf.Total)
}

func TestCreateOrder_BackendFailure(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "INVALID_INPUT", "message": "address is required"},
		})
	}))

	_, err := gw.CreateOrder(context.Background(), &domain.OrderRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestTrackOrder(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/track", r.URL.Path)
		assert.Equal(t, "1001", r.URL.Query().Get("orderId"))
		assert.Equal(t, "a@b.com", r.URL.Query().Get("email"))
		json.NewEncoder(w).Encode(domain.OrderStatus{OrderID: 1001, Status: "SHIPPED", Total: 440})
	}))

	status, err := gw.TrackOrder(context.Background(), TrackOrderInput{OrderID: 1001, Email: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "SHIPPED", status.Status)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func newTestAuthGateway(t *testing.T, handler http.Handler) *AuthGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return NewAuthGateway(httpclient.New(cfg), srv.URL, newTestLogger())
}

func TestRequestCode_PostsEmail(t *testing.T) {
	gw := newTestAuthGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/send-verification", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req["email"])
		w.Write([]byte(`{"sent":true}`))
	}))

	assert.NoError(t, gw.RequestCode(context.Background(), "a@b.com"))
}

func TestVerifyCode_Success(t *testing.T) {
	gw := newTestAuthGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-code", r.URL.Path)
		json.NewEncoder(w).Encode(AuthResult{
			Customer: Customer{ID: 5, Name: "Asha", Email: "a@b.com"},
			Token:    "opaque-token",
		})
	}))

	result, err := gw.VerifyCode(context.Background(), "a@b.com", "482913")
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Customer.ID)
	assert.Equal(t, "opaque-token", result.Token)
}

func TestVerifyCode_WrongCode(t *testing.T) {
	gw := newTestAuthGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "UNAUTHORIZED", "message": "invalid or expired code"},
		})
	}))

	_, err := gw.VerifyCode(context.Background(), "a@b.com", "000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}
