package fx

import (
	"pricewatch/internal/app/amqp/enqueue"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"amqp-enqueue",
	fx.Provide(enqueue.NewPublisher),
)
