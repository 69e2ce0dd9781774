package fx

import (
	appmetrics "pricewatch/internal/app/metrics"
	"pricewatch/internal/pkg/metrics"
	"pricewatch/internal/router"

	"go.uber.org/fx"
)

// Module provides the shared Recorder.
var Module = fx.Module(
	"metrics",
	fx.Provide(metrics.NewRecorder),
)

// RouteModule exposes /metrics on the HTTP router.
var RouteModule = router.Routes(appmetrics.NewHandler)
