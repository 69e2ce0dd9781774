package metrics

import (
	"net/http"

	"pricewatch/internal/pkg/metrics"
	"pricewatch/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the Prometheus scrape endpoint.
type Handler struct {
	h http.Handler
}

func NewHandler(rec *metrics.Recorder) *Handler {
	return &Handler{h: promhttp.HandlerFor(rec.Registry(), promhttp.HandlerOpts{})}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/metrics", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.h.ServeHTTP(w, r)
}

var _ router.Handler = (*Handler)(nil)
