package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout time.Duration
}

// NewRouter assembles the storefront API.
func NewRouter(cfg RouterConfig, cartH *CartHandler, productH *ProductHandler, checkoutH *CheckoutHandler, profileH *ProfileHandler) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(DeviceIDMiddleware)
	r.Use(MockAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productH.ListProducts)
		r.Get("/products/{product_id}", productH.GetProduct)
		r.Get("/categories", productH.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Delete("/", cartH.ClearCart)
			r.Post("/items", cartH.AddItem)
			r.Put("/items/{product_id}", cartH.UpdateQuantity)
			r.Delete("/items/{product_id}", cartH.RemoveItem)
		})

		r.Post("/checkout", checkoutH.SubmitOrder)
		r.Get("/orders", checkoutH.ListOrders)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileH.GetProfile)
			r.Put("/", profileH.SaveProfile)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
