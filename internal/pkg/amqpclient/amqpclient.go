package amqpclient

import (
	"context"
	"fmt"
	"strings"

	"pricewatch/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type NewAMQPParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.SugaredLogger
}

type AMQPOut struct {
	fx.Out

	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// NewAMQP dials RabbitMQ when RABBITMQ_URL is set. Without it both outputs are
// nil and consumers of the channel treat the transport as disabled.
func NewAMQP(p NewAMQPParams) (AMQPOut, error) {
	url := ""
	if p.Config != nil {
		url = strings.TrimSpace(p.Config.RabbitMQ.URL)
	}
	if url == "" {
		p.Logger.Infow("rabbitmq_disabled", "reason", "missing RABBITMQ_URL")
		return AMQPOut{}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return AMQPOut{}, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return AMQPOut{}, fmt.Errorf("rabbitmq channel: %w", err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ch.Close()
			_ = conn.Close()
			return nil
		},
	})

	p.Logger.Infow(
		"rabbitmq_enabled",
		"exchange", p.Config.RabbitMQ.Exchange,
		"request_routing_key", p.Config.RabbitMQ.RoutingKey,
		"result_queue", p.Config.RabbitMQ.ResultQueue,
		"prefetch", p.Config.RabbitMQ.Prefetch,
		"declare_topology", p.Config.RabbitMQ.DeclareTopology,
	)

	return AMQPOut{Conn: conn, Channel: ch}, nil
}

// Declarer is the subset of *amqp.Channel used to declare topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

type Topology struct {
	Exchange   string
	Queue      string
	RoutingKey string
	DLX        string
	DLQ        string
}

// NewTopology names a durable topic binding whose queue dead-letters into
// "<exchange>.dlx" / "<queue>.dlq".
func NewTopology(exchange, queue, routingKey string) Topology {
	exchange = strings.TrimSpace(exchange)
	if exchange == "" {
		exchange = "events"
	}
	queue = strings.TrimSpace(queue)
	routingKey = strings.TrimSpace(routingKey)
	if routingKey == "" {
		routingKey = queue
	}
	return Topology{
		Exchange:   exchange,
		Queue:      queue,
		RoutingKey: routingKey,
		DLX:        exchange + ".dlx",
		DLQ:        queue + ".dlq",
	}
}

func (t Topology) Declare(ch Declarer) error {
	if err := ch.ExchangeDeclare(t.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq exchange declare %q: %w", t.Exchange, err)
	}
	if err := ch.ExchangeDeclare(t.DLX, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq dlx exchange declare %q: %w", t.DLX, err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange": t.DLX,
	}
	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("rabbitmq queue declare %q: %w", t.Queue, err)
	}
	if _, err := ch.QueueDeclare(t.DLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq dlq declare %q: %w", t.DLQ, err)
	}

	if err := ch.QueueBind(t.Queue, t.RoutingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue bind queue=%q key=%q ex=%q: %w", t.Queue, t.RoutingKey, t.Exchange, err)
	}
	if err := ch.QueueBind(t.DLQ, t.RoutingKey, t.DLX, false, nil); err != nil {
		return fmt.Errorf("rabbitmq dlq bind queue=%q key=%q ex=%q: %w", t.DLQ, t.RoutingKey, t.DLX, err)
	}
	return nil
}
