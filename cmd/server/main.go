package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	cachefx "pricewatch/cache/fx"
	enqueuefx "pricewatch/internal/app/amqp/enqueue/fx"
	appfx "pricewatch/internal/app/fx"
	healthfx "pricewatch/internal/app/health/fx"
	inngestfx "pricewatch/internal/app/inngest/fx"
	metricsfx "pricewatch/internal/app/metrics/fx"
	productsfx "pricewatch/internal/app/products/fx"
	amqpclientfx "pricewatch/internal/pkg/amqpclient/fx"
	routerfx "pricewatch/internal/router/fx"
	serverfx "pricewatch/internal/server/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		appfx.DomainOptions,
		cachefx.Module,
		amqpclientfx.Module,
		enqueuefx.Module,
		inngestfx.Module,
		productsfx.APIModule,
		routerfx.CoreRouterOptions,
		serverfx.Module,
		healthfx.Module,
		metricsfx.RouteModule,
	)

	app.Run()
}
