package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	crawlworkerfx "pricewatch/internal/app/amqp/crawlworker/fx"
	appfx "pricewatch/internal/app/fx"
	amqpclientfx "pricewatch/internal/pkg/amqpclient/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		appfx.DomainOptions,
		amqpclientfx.Module,
		crawlworkerfx.Module,
	)

	app.Run()
}
