package fx

import (
	"pricewatch/config"
	"pricewatch/internal/shop"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module(
	"shop-registry",
	fx.Provide(NewRegistry),
)

type NewRegistryParams struct {
	fx.In

	Cfg    *config.Config
	Logger *zap.SugaredLogger
}

// NewRegistry loads the catalog from SHOPS_FILE when set, otherwise the
// built-in shops. A bad catalog aborts startup.
func NewRegistry(p NewRegistryParams) (*shop.Registry, error) {
	defs := shop.Defaults()
	source := "builtin"
	if p.Cfg != nil && p.Cfg.ShopsFile != "" {
		loaded, err := shop.LoadFile(p.Cfg.ShopsFile)
		if err != nil {
			return nil, err
		}
		defs = loaded
		source = p.Cfg.ShopsFile
	}

	reg, err := shop.NewRegistry(defs)
	if err != nil {
		return nil, err
	}

	p.Logger.Infow("shop_registry_loaded", "source", source, "shops", reg.Len())
	return reg, nil
}
