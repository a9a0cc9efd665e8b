package router

import (
	"net/http"
	"time"

	"quickcart/internal/cache"
	"quickcart/internal/handler"
	"quickcart/internal/metrics"
	"quickcart/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Admin    *handler.AdminHandler
}

// Options carries the collaborators shared by the middleware chain.
type Options struct {
	APIKey         string
	Tokens         middleware.TokenParser
	Idempotency    cache.IdempotencyStore // nil disables Idempotency-Key replay
	IdempotencyTTL time.Duration
	Metrics        *metrics.Metrics
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Applied outermost first: Recovery -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger, opts.Metrics))
	r.Use(middleware.CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})

	r.Get("/health", h.Health.Check)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	authenticate := middleware.Authenticate(opts.Tokens, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.List)
			r.Get("/{slug}", h.Product.GetBySlug)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.Get)
				r.Post("/items", h.Cart.AddItem)
				r.Patch("/items/{id}", h.Cart.SetQuantity)
				r.Delete("/items/{id}", h.Cart.RemoveItem)
			})

			r.With(middleware.Idempotency(opts.Idempotency, opts.IdempotencyTTL, logger)).
				Post("/checkout", h.Checkout.Checkout)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Order.List)
				r.Get("/{id}", h.Order.GetByID)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(opts.APIKey, logger))

			r.Patch("/orders/{id}/status", h.Admin.UpdateOrderStatus)
			r.Patch("/products/{id}/active", h.Admin.SetProductActive)
			r.Get("/products/export", h.Admin.ExportProducts)
			r.Delete("/products/{id}", h.Admin.DeleteProduct)
			r.Delete("/users/{id}", h.Admin.DeleteUser)
		})
	})

	return r
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":"NOT_FOUND","message":"route not found"}`))
}
