package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MFahim14/test-assignment/internal/metrics"
)

type RouterOptions struct {
	Metrics *metrics.Metrics
	// Gatherer backs GET /metrics. The route is omitted when nil.
	Gatherer prometheus.Gatherer
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(h.logger, opts.Metrics))
	r.Use(recoverJSON(h.logger))

	r.Get("/", h.Home)
	r.Get("/favicon.ico", h.Favicon)
	r.Get("/health", h.Health)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/inventory", h.ListInventory)
	r.Post("/add-item", h.AddItem)
	r.Post("/remove-item", h.RemoveItem)
	r.Post("/update-quantity", h.UpdateQuantity)

	r.Post("/translation", h.Translation)
	r.Post("/rotation", h.Rotation)
	r.Post("/scale", h.Scale)
	r.Post("/transform", h.Transform)

	return r
}
