package fx

import (
	"pricewatch/cache"
	"pricewatch/config"
	"pricewatch/internal/app/amqp/enqueue"
	"pricewatch/internal/app/inngest"
	"pricewatch/internal/app/products"
	"pricewatch/internal/app/products/dao"
	"pricewatch/internal/producturl"
	"pricewatch/internal/router"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires storage and crawl result recording. Both binaries use it.
var Module = fx.Module(
	"products",
	fx.Provide(
		dao.NewProductStore,
		func(s *dao.ProductStore) products.Store { return s },
		func(s *dao.ProductStore) products.CrawledProductWriter { return s },
		func(r *producturl.Resolver) products.Resolver { return r },
		products.NewResultRecorder,
	),
)

// APIModule adds the add-product service and its HTTP routes.
var APIModule = fx.Module(
	"products-api",
	fx.Provide(
		NewCrawlPublisher,
		func(g *cache.EnqueueGuard) products.Guard { return g },
		products.NewService,
	),
	router.Routes(
		products.NewResolveHandler,
		products.NewAddProductHandler,
		products.NewShopsHandler,
	),
)

type NewCrawlPublisherParams struct {
	fx.In

	Cfg     *config.Config
	AMQP    *enqueue.Publisher `optional:"true"`
	Inngest *inngest.Publisher `optional:"true"`
	Logger  *zap.SugaredLogger
}

// NewCrawlPublisher picks the transport named by ENQUEUE_BACKEND.
func NewCrawlPublisher(p NewCrawlPublisherParams) products.CrawlPublisher {
	var pub products.CrawlPublisher
	switch p.Cfg.EnqueueBackend {
	case "inngest":
		if p.Inngest != nil {
			pub = p.Inngest
		}
	default:
		if p.AMQP != nil {
			pub = p.AMQP
		}
	}

	if pub == nil {
		p.Logger.Warnw("crawl_publisher_missing", "backend", p.Cfg.EnqueueBackend)
		return nil
	}
	p.Logger.Infow("crawl_publisher_selected", "backend", p.Cfg.EnqueueBackend)
	return pub
}
