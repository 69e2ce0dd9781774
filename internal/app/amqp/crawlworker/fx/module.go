package fx

import (
	"context"

	"pricewatch/config"
	"pricewatch/internal/app/amqp/crawlworker"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module consumes crawl results from RabbitMQ and stores them through
// products.ResultRecorder.
var Module = fx.Module(
	"amqp-crawlworker",
	fx.Provide(
		fx.Annotate(
			crawlworker.NewCrawlResultHandler,
			fx.As(new(crawlworker.Handler)),
		),
		crawlworker.NewConsumer,
	),
	fx.Invoke(runConsumer),
)

type runConsumerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Consumer  *crawlworker.Consumer
	Logger    *zap.SugaredLogger
}

// runConsumer ties the consumer to the app lifecycle. Stop drains the
// in-flight delivery before the AMQP channel closes.
func runConsumer(p runConsumerParams) {
	queue := p.Cfg.RabbitMQ.ResultQueue
	p.Lifecycle.Append(fx.StartStopHook(
		func(ctx context.Context) error {
			p.Logger.Infow("crawlworker_starting", "queue", queue)
			return p.Consumer.Start(ctx)
		},
		func(ctx context.Context) error {
			p.Logger.Infow("crawlworker_stopping", "queue", queue)
			return p.Consumer.Stop(ctx)
		},
	))
}
