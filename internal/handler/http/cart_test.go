package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
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
	redisrepo "github.com/Balamathankumar/store-front/internal/repository/redis"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
)

// ============================================================================
// Mock catalog
// ============================================================================

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalog) GetCombo(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupCartRouter builds the cart route subtree exactly as production wires
// it, with the session middleware, backed by miniredis.
func setupCartRouter(t *testing.T, catalog *mockCatalog) *chi.Mux {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := redisrepo.NewSnapshotRepository(client, time.Hour)

	carts := cart.NewManager(repo, testLogger())
	handler := NewCartHandler(carts, catalog, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(Session(time.Hour))

		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/toggle", handler.ToggleCart)
		r.Post("/items", handler.AddItem)
		r.Put("/items/{productID}/{grams}", handler.UpdateQuantity)
		r.Patch("/items/{productID}/{grams}", handler.ChangeWeight)
		r.Delete("/items/{productID}/{grams}", handler.RemoveItem)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCartState(t *testing.T, rec *httptest.ResponseRecorder) domain.CartState {
	t.Helper()
	var envelope struct {
		Data domain.CartState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func sessionCookie() []*http.Cookie {
	return []*http.Cookie{{Name: SessionCookie, Value: "test-session"}}
}

// ============================================================================
// Session middleware
// ============================================================================

func TestSession_IssuesCookieOnFirstVisit(t *testing.T) {
	router := setupCartRouter(t, new(mockCatalog))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			found = true
			assert.NotEmpty(t, c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "expected a session cookie to be set")
}

func TestSession_ReusesExistingCookie(t *testing.T) {
	router := setupCartRouter(t, new(mockCatalog))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, SessionCookie, c.Name, "no new session cookie expected")
	}
}

// ============================================================================
// AddItem
// ============================================================================

func TestAddItem_FetchesProductAndAdds(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetProduct", mock.Anything, int64(1)).
		Return(&domain.Product{ID: 1, Name: "Almonds", RetailPrice: 100}, nil)
	router := setupCartRouter(t, catalog)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ID: 1, Grams: 250, Quantity: 2}, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.TotalItems)
	assert.Equal(t, int64(440), state.TotalAmount)
	catalog.AssertExpectations(t)
}

func TestAddItem_DefaultsWeightAndQuantity(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetProduct", mock.Anything, int64(1)).
		Return(&domain.Product{ID: 1, Name: "Almonds", RetailPrice: 100}, nil)
	router := setupCartRouter(t, catalog)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ID: 1}, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, domain.Weight100, state.Items[0].Weight)
	assert.Equal(t, 1, state.Items[0].Quantity)
}

func TestAddItem_ComboUsesComboEndpoint(t *testing.T) {
	catalog := new(mockCatalog)
	price := int64(750)
	catalog.On("GetCombo", mock.Anything, int64(7)).
		Return(&domain.Product{ID: 7, Name: "Festive Box", IsCombo: true, Price: &price}, nil)
	router := setupCartRouter(t, catalog)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ID: 7, Combo: true}, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, rec)
	assert.Equal(t, int64(750), state.TotalAmount)
	catalog.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetProduct", mock.Anything, int64(99)).
		Return(nil, apperrors.NotFound("catalog", "item not found"))
	router := setupCartRouter(t, catalog)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ID: 99, Grams: 100}, sessionCookie())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_InvalidGrams(t *testing.T) {
	router := setupCartRouter(t, new(mockCatalog))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ID: 1, Grams: 75}, sessionCookie())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "grams")
}

// ============================================================================
// Line-item mutations
// ============================================================================

func addAlmonds(t *testing.T, router http.Handler, grams, qty int) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ID: 1, Grams: grams, Quantity: qty}, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
}

func newAlmondsRouter(t *testing.T) *chi.Mux {
	t.Helper()
	catalog := new(mockCatalog)
	catalog.On("GetProduct", mock.Anything, int64(1)).
		Return(&domain.Product{ID: 1, Name: "Almonds", RetailPrice: 100}, nil)
	return setupCartRouter(t, catalog)
}

func TestUpdateQuantity_SetsAbsolute(t *testing.T) {
	router := newAlmondsRouter(t)
	addAlmonds(t, router, 100, 2)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/cart/items/1/100",
		UpdateQuantityRequest{Quantity: 5}, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, rec)
	assert.Equal(t, 5, state.TotalItems)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	router := newAlmondsRouter(t)
	addAlmonds(t, router, 100, 2)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/cart/items/1/100",
		UpdateQuantityRequest{Quantity: 0}, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCartState(t, rec).Items)
}

func TestChangeWeight_MergesExistingTarget(t *testing.T) {
	router := newAlmondsRouter(t)
	addAlmonds(t, router, 50, 1)
	addAlmonds(t, router, 100, 1)

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/1/50",
		ChangeWeightRequest{NewGrams: 100}, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, domain.Weight100, state.Items[0].Weight)
	assert.Equal(t, 2, state.Items[0].Quantity)
}

func TestRemoveItem_ByWeight(t *testing.T) {
	router := newAlmondsRouter(t)
	addAlmonds(t, router, 50, 1)
	addAlmonds(t, router, 250, 1)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/1/50", nil, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, domain.Weight250, state.Items[0].Weight)
}

func TestRemoveItem_InvalidProductID(t *testing.T) {
	router := newAlmondsRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/abc/50", nil, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Clear / Toggle / Get
// ============================================================================

func TestClearCart(t *testing.T) {
	router := newAlmondsRouter(t)
	addAlmonds(t, router, 100, 3)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/cart", nil, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, rec)
	assert.Empty(t, state.Items)
	assert.Equal(t, int64(0), state.TotalAmount)
}

func TestToggleCart(t *testing.T) {
	router := setupCartRouter(t, new(mockCatalog))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/toggle", nil, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeCartState(t, rec).IsOpen)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/toggle", nil, sessionCookie())
	assert.False(t, decodeCartState(t, rec).IsOpen)
}

func TestGetCart_SurvivesAcrossRequests(t *testing.T) {
	router := newAlmondsRouter(t)
	addAlmonds(t, router, 250, 2)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, sessionCookie())

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, int64(440), state.TotalAmount)
}

func TestGetCart_SessionsAreIsolated(t *testing.T) {
	router := newAlmondsRouter(t)
	addAlmonds(t, router, 100, 1)

	other := []*http.Cookie{{Name: SessionCookie, Value: "other-session"}}
	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", nil, other)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCartState(t, rec).Items)
}
