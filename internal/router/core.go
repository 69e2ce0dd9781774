package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
)

// Handler owns one route on the shared mux.
type Handler interface {
	RegisterRoute(r *chi.Mux)
	Handle(w http.ResponseWriter, r *http.Request)
}

// AsRoute annotates a handler constructor so NewMux picks it up.
func AsRoute(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Handler)),
		fx.ResultTags(`group:"handlers"`),
	)
}

// Routes provides every constructor as a route.
func Routes(constructors ...any) fx.Option {
	annotated := make([]any, 0, len(constructors))
	for _, c := range constructors {
		annotated = append(annotated, AsRoute(c))
	}
	return fx.Provide(annotated...)
}
