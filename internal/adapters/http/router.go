package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	// Tracker surface. The loader is served under a neutral first-party
	// name; the two POST endpoints keep the flat response shapes the
	// deployed tracker versions expect.
	r.Get("/main.js", serveLoaderScript)
	r.Post("/init-tracking", handler.initTracking)
	r.Post("/track-conversion", handler.trackConversion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", handler.listCategories)
		r.Get("/products", handler.listProducts)
		r.Get("/products/{product_id}", handler.getProduct)
		r.Post("/orders", handler.createOrder)
		r.Post("/register-event", handler.registerEvent)
		r.Get("/transactions", handler.listTransactions)
	})
	return r
}
