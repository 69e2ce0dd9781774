package fx

import (
	"errors"
	"net/http"
	"time"

	"pricewatch/config"
	"pricewatch/internal/pkg/render"
	"pricewatch/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var CoreRouterOptions = fx.Options(
	fx.Provide(NewMux),
)

type muxParams struct {
	fx.In

	Cfg      *config.Config
	Logger   *zap.SugaredLogger
	Handlers []router.Handler `group:"handlers"`
}

func NewMux(p muxParams) *chi.Mux {
	r := chi.NewRouter()

	corsEnabled := false
	allowedOrigins := []string{
		"https://pricewatch.app",
	}
	if p.Cfg != nil {
		switch p.Cfg.ENV {
		case config.Dev, config.Test:
			allowedOrigins = append(allowedOrigins,
				"http://localhost:5173",
				"http://127.0.0.1:5173",
				"http://localhost:3000",
			)
			corsEnabled = true
		case config.Production, config.Preview:
			corsEnabled = true
		}
	}
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(zapRequestLogger(p.Logger))
	if p.Cfg != nil && p.Cfg.RateLimitRPS > 0 {
		r.Use(rateLimit(newIPLimiters(p.Cfg.RateLimitRPS, p.Cfg.RateLimitBurst, maxRateLimitedClients)))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		render.ChiErr(w, req, http.StatusNotFound, errNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		render.ChiErr(w, req, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})

	for _, h := range p.Handlers {
		h.RegisterRoute(r)
	}

	return r
}

const maxRateLimitedClients = 10000

var (
	errNotFound         = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

func zapRequestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log := logger.Infow
			if ww.Status() >= http.StatusInternalServerError {
				log = logger.Warnw
			}
			log("http_request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
