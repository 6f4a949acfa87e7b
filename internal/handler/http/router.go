package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// RouterConfig holds the HTTP knobs that are not handlers.
type RouterConfig struct {
	PageCacheMaxAge int
	Cookies         CookieConfig

	// Per-client limit on add-to-cart writes. Zero RPS disables it.
	CartRateLimit middleware.RateLimitConfig
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	productHandler *ProductHandler,
	cartHandler *CartHandler,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	cartLimit := middleware.RateLimit(cfg.CartRateLimit, logger)

	// Product pages
	r.With(middleware.CacheControl(cfg.PageCacheMaxAge)).Get("/product/{slug}", productHandler.Show)
	r.With(middleware.NoStore, cartLimit, CartID(cfg.Cookies)).Post("/product/{slug}/cart", productHandler.AddToCart)

	// Cart API endpoints
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(ContentTypeJSON)
		r.Use(CartID(cfg.Cookies))

		r.Get("/", cartHandler.GetCart)
		r.With(cartLimit).Post("/items", cartHandler.AddItem)
	})

	r.NotFound(productHandler.NotFound)

	return r
}
