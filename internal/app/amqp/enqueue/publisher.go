package enqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"pricewatch/config"
	"pricewatch/internal/pkg/crawlevents"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrRabbitMQDisabled = fmt.Errorf("rabbitmq disabled: %w", crawlevents.ErrPublisherDisabled)

type publishFunc func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error

// Publisher sends crawl requests to the crawler exchange.
type Publisher struct {
	cfg     *config.Config
	channel *amqp.Channel
	logger  *zap.SugaredLogger

	publish publishFunc
}

type NewPublisherParams struct {
	fx.In

	Cfg     *config.Config
	Channel *amqp.Channel `optional:"true"`
	Logger  *zap.SugaredLogger
}

func NewPublisher(p NewPublisherParams) *Publisher {
	var publishFn publishFunc
	if p.Channel != nil {
		publishFn = p.Channel.PublishWithContext
	}

	return &Publisher{
		cfg:     p.Cfg,
		channel: p.Channel,
		logger:  p.Logger,
		publish: publishFn,
	}
}

func (p *Publisher) PublishCrawlRequest(ctx context.Context, env crawlevents.CrawlRequested) error {
	if p.cfg.RabbitMQ.URL == "" || p.publish == nil {
		return ErrRabbitMQDisabled
	}

	ex := p.cfg.RabbitMQ.Exchange
	if ex == "" {
		ex = "events"
	}
	routingKey := p.cfg.RabbitMQ.RoutingKey
	if routingKey == "" {
		routingKey = "crawler.url.requested.v1"
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal crawl request: %w", err)
	}

	if p.channel != nil && p.cfg.RabbitMQ.DeclareTopology {
		if err := p.channel.ExchangeDeclare(ex, "topic", true, false, false, false, nil); err != nil {
			p.logger.Errorw("enqueue_exchange_declare_failed", "exchange", ex, "err", err)
			return fmt.Errorf("rabbitmq exchange declare %s: %w", ex, err)
		}
	}

	if err := p.publish(ctx, ex, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    env.TS,
		MessageId:    env.EventID,
		Body:         body,
	}); err != nil {
		p.logger.Errorw(
			"enqueue_publish_failed",
			"exchange", ex,
			"routing_key", routingKey,
			"event_id", env.EventID,
			"url", env.Data.URL,
			"err", err,
		)
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	p.logger.Infow("enqueue_published", "exchange", ex, "routing_key", routingKey, "event_id", env.EventID, "url", env.Data.URL)
	return nil
}
