package products

import (
	"errors"
	"net/http"
	"strings"

	"pricewatch/db"
	"pricewatch/internal/pkg/crawlevents"
	"pricewatch/internal/pkg/render"
	"pricewatch/internal/producturl"
	"pricewatch/internal/router"
	"pricewatch/internal/shop"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type resolveRequest struct {
	Text string `json:"text" validate:"max=4096"`
}

type resolveResponse struct {
	producturl.Outcome
	Message string `json:"message"`
}

// ResolveHandler runs the URL pipeline without touching storage.
type ResolveHandler struct {
	svc *Service
}

func NewResolveHandler(svc *Service) *ResolveHandler {
	return &ResolveHandler{svc: svc}
}

func (h *ResolveHandler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/resolve", h.Handle)
}

func (h *ResolveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.ChiErr(w, r, http.StatusBadRequest, err)
		return
	}

	out := h.svc.Resolve(req.Text)
	render.ChiJSON(w, r, http.StatusOK, resolveResponse{Outcome: out, Message: Message(out.Kind)})
}

type addProductRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Text   string `json:"text" validate:"max=4096"`
}

type AddProductHandler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

type NewAddProductHandlerParams struct {
	fx.In

	Service *Service
	Logger  *zap.SugaredLogger
}

func NewAddProductHandler(p NewAddProductHandlerParams) *AddProductHandler {
	return &AddProductHandler{svc: p.Service, logger: p.Logger}
}

func (h *AddProductHandler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/products", h.Handle)
}

func (h *AddProductHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.ChiErr(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := h.svc.Add(r.Context(), strings.TrimSpace(req.UserID), req.Text)
	if err != nil {
		status := statusForAddError(err)
		h.logger.Errorw("product_add_failed", "user_id", req.UserID, "status", status, "err", err)
		render.ChiErr(w, r, status, errors.New(http.StatusText(status)))
		return
	}

	status := http.StatusOK
	switch res.Status {
	case StatusRejected:
		status = http.StatusUnprocessableEntity
	case StatusQueued:
		status = http.StatusAccepted
	case StatusAdded:
		status = http.StatusCreated
	}
	render.ChiJSON(w, r, status, res)
}

func statusForAddError(err error) int {
	switch {
	case errors.Is(err, db.ErrDatabaseDisabled), errors.Is(err, crawlevents.ErrPublisherDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrPublishFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type shopView struct {
	Name            string   `json:"name"`
	CanonicalDomain string   `json:"canonical_domain"`
	Domains         []string `json:"domains"`
	SearchURL       string   `json:"search_url,omitempty"`
}

// ShopsHandler lists supported shops. With ?q= each entry carries a search
// link for that title.
type ShopsHandler struct {
	registry *shop.Registry
}

func NewShopsHandler(registry *shop.Registry) *ShopsHandler {
	return &ShopsHandler{registry: registry}
}

func (h *ShopsHandler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/shops", h.Handle)
}

func (h *ShopsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	defs := h.registry.All()
	out := make([]shopView, 0, len(defs))
	for _, d := range defs {
		v := shopView{Name: d.Name, CanonicalDomain: d.CanonicalDomain, Domains: d.Domains()}
		if q != "" {
			v.SearchURL = d.SearchURL(q)
		}
		out = append(out, v)
	}
	render.ChiJSON(w, r, http.StatusOK, map[string]any{"shops": out})
}

var (
	_ router.Handler = (*ResolveHandler)(nil)
	_ router.Handler = (*AddProductHandler)(nil)
	_ router.Handler = (*ShopsHandler)(nil)
)
