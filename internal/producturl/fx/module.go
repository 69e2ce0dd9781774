package fx

import (
	"pricewatch/internal/producturl"
	shopfx "pricewatch/internal/shop/fx"

	"go.uber.org/fx"
)

var Module = fx.Options(
	shopfx.Module,
	fx.Provide(producturl.NewResolver),
)
