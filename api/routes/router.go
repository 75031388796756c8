package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenmarket/greenmarket-backend/api/controllers"
	"github.com/greenmarket/greenmarket-backend/api/middleware"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
	pkgredis "github.com/greenmarket/greenmarket-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Cache and Metrics are
// optional; routes that depend on them degrade gracefully when nil.
type Deps struct {
	Logger   *logger.Logger
	Status   *controllers.StatusController
	Health   *controllers.HealthController
	Products *controllers.ProductsController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Cache    pkgredis.IdempotencyStore
	Metrics  prometheus.Gatherer
}

// New assembles the chi router with the full middleware chain.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS())

	r.Get("/", deps.Status.Root)
	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/products", deps.Products.List)
		api.Get("/products/{id}", deps.Products.Detail)
		api.Get("/products/{id}/stock", deps.Products.Stock)

		api.Post("/cart/verify", deps.Cart.Verify)

		api.Group(func(guarded chi.Router) {
			guarded.Use(middleware.Idempotency(deps.Cache, deps.Logger))
			guarded.Post("/checkout", deps.Checkout.Create)
		})
	})

	return r
}
