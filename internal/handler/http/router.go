package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gearshed/storefront/pkg/health"
	"github.com/gearshed/storefront/pkg/middleware"
	"github.com/gearshed/storefront/internal/service"
)

// Services bundles the service dependencies the router needs.
type Services struct {
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Recent   *service.RecentlyViewedService
	Catalog  *service.CatalogService
	Checkout *service.CheckoutService
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svcs Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	cartHandler := NewCartHandler(svcs.Cart, logger)
	wishlistHandler := NewWishlistHandler(svcs.Wishlist, logger)
	recentHandler := NewRecentlyViewedHandler(svcs.Recent, logger)
	catalogHandler := NewCatalogHandler(svcs.Catalog, logger)
	checkoutHandler := NewCheckoutHandler(svcs.Checkout, logger)

	// The catalog is anonymous; no session required to browse.
	r.Route("/api/v1/catalog/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", catalogHandler.List)
		r.Post("/", catalogHandler.Create)
		r.Get("/slug/{slug}", catalogHandler.GetBySlug)
		r.Get("/{productID}", catalogHandler.GetByID)
	})

	// Session-scoped state.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productID}", cartHandler.SetItemQuantity)
		r.Delete("/items/{productID}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", wishlistHandler.List)
		r.Delete("/", wishlistHandler.Clear)

		r.Post("/items", wishlistHandler.Save)
		r.Get("/items/{productID}", wishlistHandler.Contains)
		r.Delete("/items/{productID}", wishlistHandler.Remove)
		r.Post("/toggle", wishlistHandler.Toggle)
	})

	r.Route("/api/v1/recently-viewed", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", recentHandler.Get)
		r.Post("/", recentHandler.RecordView)
		r.Delete("/", recentHandler.Clear)
		r.Delete("/{productID}", recentHandler.Remove)
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Post("/", checkoutHandler.Submit)
	})

	return r
}
