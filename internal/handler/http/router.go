package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Balamathankumar/store-front/internal/cart"
	"github.com/Balamathankumar/store-front/internal/service"
	"github.com/Balamathankumar/store-front/pkg/health"
	"github.com/Balamathankumar/store-front/pkg/middleware"
)

// RouterConfig carries the collaborators the router wires into handlers.
type RouterConfig struct {
	Carts          *cart.Manager
	Catalog        CatalogAPI
	Auth           AuthAPI
	Checkout       *service.CheckoutService
	Tracker        OrderTracker
	Health         *health.Handler
	Logger         *slog.Logger
	AllowedOrigins []string
	SessionTTL     time.Duration
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.AllowedOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cfg.Carts, cfg.Catalog, cfg.Logger)
	productHandler := NewProductHandler(cfg.Catalog, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(cfg.Checkout, cfg.Tracker, cfg.Logger)
	authHandler := NewAuthHandler(cfg.Auth, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(Session(cfg.SessionTTL))

		// Catalog passthrough
		r.Get("/products", productHandler.List)
		r.Get("/products/search", productHandler.Search)
		r.Get("/products/featured", productHandler.Featured)
		r.Get("/products/{productID}", productHandler.Get)
		r.Get("/combos/{comboID}", productHandler.GetCombo)
		r.Get("/categories", productHandler.Categories)
		r.Get("/weights", productHandler.WeightOptions)

		// Cart
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/toggle", cartHandler.ToggleCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productID}/{grams}", cartHandler.UpdateQuantity)
			r.Patch("/items/{productID}/{grams}", cartHandler.ChangeWeight)
			r.Delete("/items/{productID}/{grams}", cartHandler.RemoveItem)
		})

		// Checkout and tracking
		r.Post("/checkout", checkoutHandler.PlaceOrder)
		r.Get("/orders/track", checkoutHandler.TrackOrder)

		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.Post("/request-code", authHandler.RequestCode)
			r.Post("/verify", authHandler.VerifyCode)
			r.Post("/logout", authHandler.Logout)
		})
	})

	return r
}
