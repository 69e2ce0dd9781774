package fx

import (
	"go.uber.org/fx"

	dbfx "pricewatch/db/fx"
	metricsfx "pricewatch/internal/app/metrics/fx"
	productsfx "pricewatch/internal/app/products/fx"
	producturlfx "pricewatch/internal/producturl/fx"
)

// DomainOptions is what every long-running binary needs to resolve product
// URLs and persist products.
var DomainOptions = fx.Options(
	dbfx.PrimaryModule,
	metricsfx.Module,
	producturlfx.Module,
	productsfx.Module,
)
