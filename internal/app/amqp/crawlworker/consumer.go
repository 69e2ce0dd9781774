package crawlworker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pricewatch/config"
	"pricewatch/internal/app/products"
	"pricewatch/internal/pkg/amqpclient"
	"pricewatch/internal/pkg/crawlevents"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tidwall/gjson"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrHandlerMissing = errors.New("crawlworker handler missing")

type Handler interface {
	Handle(ctx context.Context, msg crawlevents.ProductCrawled) error
}

// Consumer reads crawl results from the result queue. Malformed or
// unresolvable messages are dead-lettered; other failures get one requeue
// before they are dead-lettered too.
type Consumer struct {
	cfg     *config.Config
	channel *amqp.Channel
	handler Handler
	logger  *zap.SugaredLogger

	consumerTag string
	done        chan struct{}
}

type NewConsumerParams struct {
	fx.In

	Config  *config.Config
	Channel *amqp.Channel `optional:"true"`
	Handler Handler       `optional:"true"`
	Logger  *zap.SugaredLogger
}

func NewConsumer(p NewConsumerParams) *Consumer {
	h := p.Handler
	if h == nil {
		h = missingHandler{}
	}

	return &Consumer{
		cfg:         p.Config,
		channel:     p.Channel,
		handler:     h,
		logger:      p.Logger,
		consumerTag: "crawlworker",
	}
}

func (c *Consumer) topology() amqpclient.Topology {
	queue := strings.TrimSpace(c.cfg.RabbitMQ.ResultQueue)
	if queue == "" {
		queue = "crawler.product.crawled.v1"
	}
	return amqpclient.NewTopology(c.cfg.RabbitMQ.Exchange, queue, c.cfg.RabbitMQ.ResultRouting)
}

func (c *Consumer) Start(ctx context.Context) error {
	if c.cfg == nil || strings.TrimSpace(c.cfg.RabbitMQ.URL) == "" || c.channel == nil {
		c.logger.Infow("crawlworker_disabled", "reason", "missing rabbitmq config or channel")
		return nil
	}

	top := c.topology()
	if c.cfg.RabbitMQ.DeclareTopology {
		if err := top.Declare(c.channel); err != nil {
			return err
		}
		c.logger.Infow(
			"crawlworker_topology_declared",
			"exchange", top.Exchange,
			"queue", top.Queue,
			"routing_key", top.RoutingKey,
			"dlx", top.DLX,
			"dlq", top.DLQ,
		)
	}

	prefetch := c.cfg.RabbitMQ.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := c.channel.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("rabbitmq qos: %w", err)
	}

	deliveries, err := c.channel.Consume(
		top.Queue,
		c.consumerTag,
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	c.logger.Infow("crawlworker_started", "queue", top.Queue, "prefetch", prefetch)

	// fx cancels the OnStart context once startup completes.
	runCtx := context.WithoutCancel(ctx)
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		for d := range deliveries {
			c.handleDelivery(runCtx, d)
		}
	}()

	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	if c.channel == nil {
		return nil
	}
	if err := c.channel.Cancel(c.consumerTag, false); err != nil {
		c.logger.Warnw("crawlworker_cancel_failed", "err", err)
		return nil
	}
	if c.done == nil {
		return nil
	}

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("crawlworker drain: %w", ctx.Err())
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	messageID := strings.TrimSpace(d.MessageId)
	if messageID == "" {
		messageID = strings.TrimSpace(d.CorrelationId)
	}

	if !gjson.ValidBytes(d.Body) {
		c.logger.Errorw("crawlworker_invalid_json", "message_id", messageID, "bytes", len(d.Body))
		_ = d.Reject(false)
		return
	}

	var msg crawlevents.ProductCrawled
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.logger.Errorw("crawlworker_invalid_payload",
			"err", err,
			"message_id", messageID,
			"event_id", gjson.GetBytes(d.Body, "event_id").String(),
		)
		_ = d.Reject(false)
		return
	}
	if strings.TrimSpace(msg.EventID) == "" {
		msg.EventID = messageID
	}

	if strings.TrimSpace(msg.Data.URL) == "" {
		c.logger.Errorw("crawlworker_missing_url", "event_id", msg.EventID)
		_ = d.Reject(false)
		return
	}

	if err := c.handler.Handle(ctx, msg); err != nil {
		requeue := !d.Redelivered && !errors.Is(err, products.ErrUnresolvableResult)
		c.logger.Errorw("crawlworker_handle_failed",
			"err", err,
			"event_id", msg.EventID,
			"event_name", msg.EventName,
			"requeue", requeue,
		)
		if requeue {
			_ = d.Nack(false, true)
		} else {
			_ = d.Reject(false)
		}
		return
	}

	_ = d.Ack(false)
}

type missingHandler struct{}

func (missingHandler) Handle(ctx context.Context, msg crawlevents.ProductCrawled) error {
	return ErrHandlerMissing
}
