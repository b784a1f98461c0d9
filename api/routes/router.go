package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidnier/storefront-backend/api/controllers"
	"github.com/davidnier/storefront-backend/api/middleware"
	"github.com/davidnier/storefront-backend/internal/cart"
	"github.com/davidnier/storefront-backend/internal/catalog"
	checkoutsvc "github.com/davidnier/storefront-backend/internal/checkout"
	"github.com/davidnier/storefront-backend/internal/orders"
	"github.com/davidnier/storefront-backend/pkg/config"
	"github.com/davidnier/storefront-backend/pkg/db"
	"github.com/davidnier/storefront-backend/pkg/logger"
	redisclient "github.com/davidnier/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redisclient.Client,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// Interface conversion keeps a nil client from masquerading as a
	// live pinger inside HealthReady.
	var cartStore interface {
		Ping(ctx context.Context) error
	}
	if redisClient != nil {
		cartStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cartStore))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Post("/", controllers.CreateProduct(catalogService, logg))
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(catalogService, logg))
				r.Patch("/", controllers.UpdateProduct(catalogService, logg))
				r.Delete("/", controllers.DeleteProduct(catalogService, logg))
			})
		})

		// Cart and checkout ride the session cookie.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cfg.Cart, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(cartService, logg))
				r.Delete("/", controllers.ClearCart(cartService, logg))
				r.Post("/items", controllers.AddCartItem(cartService, logg))
				r.Delete("/items/{productID}", controllers.RemoveCartItem(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/workboard", controllers.Workboard(ordersService, logg))
			r.Post("/status", controllers.BulkSetOrderStatus(ordersService, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(ordersService, logg))
				r.Post("/status", controllers.SetOrderStatus(ordersService, logg))
			})
		})
	})

	return r
}
