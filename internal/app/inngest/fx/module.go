package fx

import (
	"pricewatch/config"
	"pricewatch/internal/app/inngest"
	"pricewatch/internal/pkg/crawlevents"
	pkginngest "pricewatch/internal/pkg/inngest"
	"pricewatch/internal/router"

	"github.com/inngest/inngestgo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(
		pkginngest.NewInngestClient,
		inngest.NewPublisher,
		inngest.NewCrawlResultFunction,
		router.AsRoute(inngest.NewInngestHandler),
	),
	fx.Invoke(registerFunctions),
)

func registerFunctions(
	cfg *config.Config,
	client inngestgo.Client,
	resultFunc *inngest.CrawlResultFunction,
	logger *zap.SugaredLogger,
) error {
	if !pkginngest.Enabled(cfg) {
		logger.Infow("inngest_disabled", "reason", "missing INNGEST_APP_ID")
		return nil
	}

	_, err := inngestgo.CreateFunction(
		client,
		inngestgo.FunctionOpts{
			ID:      "record-crawl-result",
			Retries: inngestgo.IntPtr(3),
		},
		inngestgo.EventTrigger(crawlevents.ProductCrawledEventName, nil),
		resultFunc.Handle,
	)
	if err != nil {
		logger.Errorw("inngest_create_function_failed", "function", "record-crawl-result", "err", err)
		return err
	}

	logger.Infow("inngest_enabled",
		"path", pkginngest.ServePath(cfg),
		"event", crawlevents.ProductCrawledEventName,
	)
	return nil
}
