package inngest

import (
	"context"
	"errors"
	"fmt"

	pkginngest "pricewatch/internal/pkg/inngest"
	"pricewatch/internal/pkg/crawlevents"

	"github.com/inngest/inngestgo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Publisher sends crawl requests as Inngest events. The event id doubles as
// Inngest's dedupe key so repeated sends for one fingerprint collapse.
type Publisher struct {
	client inngestgo.Client
	logger *zap.SugaredLogger
}

type NewPublisherParams struct {
	fx.In

	Client inngestgo.Client
	Logger *zap.SugaredLogger
}

func NewPublisher(p NewPublisherParams) *Publisher {
	return &Publisher{client: p.Client, logger: p.Logger}
}

func (p *Publisher) PublishCrawlRequest(ctx context.Context, env crawlevents.CrawlRequested) error {
	id, err := p.client.Send(ctx, inngestgo.Event{
		ID:   inngestgo.StrPtr(env.EventID),
		Name: crawlevents.CrawlRequestedEventName,
		Data: map[string]any{
			"url":          env.Data.URL,
			"fingerprint":  env.Data.Fingerprint,
			"shop":         env.Data.Shop,
			"requested_by": env.Data.RequestedBy,
		},
		Timestamp: inngestgo.Timestamp(env.TS),
	})
	if err != nil {
		if errors.Is(err, pkginngest.ErrDisabled) {
			return fmt.Errorf("%w: %w", crawlevents.ErrPublisherDisabled, err)
		}
		p.logger.Errorw("inngest_send_failed", "event_id", env.EventID, "url", env.Data.URL, "err", err)
		return fmt.Errorf("inngest send: %w", err)
	}

	p.logger.Infow("inngest_event_sent", "event_id", env.EventID, "inngest_id", id, "url", env.Data.URL)
	return nil
}
