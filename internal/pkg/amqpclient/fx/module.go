package fx

import (
	"pricewatch/internal/pkg/amqpclient"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"amqp-client",
	fx.Provide(amqpclient.NewAMQP),
)
