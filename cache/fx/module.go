package fx

import (
	"pricewatch/cache"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"redis",
	fx.Provide(
		cache.NewRedis,
		cache.NewEnqueueGuard,
	),
)
