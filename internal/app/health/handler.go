package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"pricewatch/db"
	"pricewatch/internal/pkg/render"
	"pricewatch/internal/shop"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	registry *shop.Registry
	conn     db.Conn
	redis    *redis.Client
}

type NewHandlerParams struct {
	fx.In

	Registry *shop.Registry
	Conn     db.Conn       `optional:"true"`
	Redis    *redis.Client `optional:"true"`
}

func NewHandler(p NewHandlerParams) *Handler {
	return &Handler{registry: p.Registry, conn: p.Conn, redis: p.Redis}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/health", h.Handle)
}

type response struct {
	OK    bool   `json:"ok"`
	Shops int    `json:"shops"`
	DB    string `json:"db"`
	Redis string `json:"redis"`
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response{OK: true, Shops: h.registry.Len(), DB: "disabled", Redis: "disabled"}

	if p, ok := h.conn.(pinger); ok {
		resp.DB = "up"
		if err := p.PingContext(ctx); err != nil {
			resp.DB = "down"
			resp.OK = false
		}
	}
	if h.redis != nil {
		resp.Redis = "up"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			resp.Redis = "down"
			resp.OK = false
		}
	}

	status := http.StatusOK
	if !resp.OK {
		status = http.StatusServiceUnavailable
	}
	render.ChiJSON(w, r, status, resp)
}
