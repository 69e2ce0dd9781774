package fx

import (
	"go.uber.org/fx"

	"pricewatch/internal/server"
)

// Module serves the chi mux on APP_PORT for the lifetime of the app.
var Module = fx.Module(
	"http-server",
	fx.Provide(server.NewHTTPServer),
	fx.Invoke(RegisterHTTPServerLifecycle),
)
