package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricewatch/internal/app/products/dao"
	"pricewatch/internal/pkg/crawlevents"
	"pricewatch/internal/pkg/metrics"
	"pricewatch/internal/producturl"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrPublishFailed wraps transport errors from the crawl publisher.
var ErrPublishFailed = errors.New("publish crawl request failed")

type AddStatus string

const (
	StatusRejected       AddStatus = "rejected"
	StatusAdded          AddStatus = "added"
	StatusAlreadyTracked AddStatus = "already_tracked"
	StatusQueued         AddStatus = "queued"
	StatusAlreadyQueued  AddStatus = "already_queued"
)

type Store interface {
	FindProductByFingerprint(ctx context.Context, fp string) (*dao.Product, error)
	EnqueueForCrawling(ctx context.Context, in dao.EnqueueForCrawlingInput) (bool, error)
	CancelCrawlRequest(ctx context.Context, fingerprint, requestedBy string) error
	LinkUserProduct(ctx context.Context, userID, productID string) (*dao.UserProduct, bool, error)
}

type Resolver interface {
	Resolve(rawText string) producturl.Outcome
}

type CrawlPublisher interface {
	PublishCrawlRequest(ctx context.Context, env crawlevents.CrawlRequested) error
}

type Guard interface {
	Acquire(ctx context.Context, fingerprint, requestedBy string) bool
	Release(ctx context.Context, fingerprint, requestedBy string)
}

type AddResult struct {
	Status    AddStatus          `json:"status"`
	Outcome   producturl.Outcome `json:"outcome"`
	Message   string             `json:"message"`
	ProductID string             `json:"product_id,omitempty"`
	EventID   string             `json:"event_id,omitempty"`
}

type Service struct {
	resolver  Resolver
	store     Store
	publisher CrawlPublisher
	guard     Guard
	metrics   *metrics.Recorder
	logger    *zap.SugaredLogger
	now       func() time.Time
}

type NewServiceParams struct {
	fx.In

	Resolver  Resolver
	Store     Store
	Publisher CrawlPublisher
	Guard     Guard             `optional:"true"`
	Metrics   *metrics.Recorder `optional:"true"`
	Logger    *zap.SugaredLogger
}

func NewService(p NewServiceParams) *Service {
	return &Service{
		resolver:  p.Resolver,
		store:     p.Store,
		publisher: p.Publisher,
		guard:     p.Guard,
		metrics:   p.Metrics,
		logger:    p.Logger,
		now:       time.Now,
	}
}

// Resolve runs the URL pipeline and records the outcome.
func (s *Service) Resolve(rawText string) producturl.Outcome {
	out := s.resolver.Resolve(rawText)
	s.metrics.ObserveOutcome(out)
	if !out.Resolved() {
		s.logger.Debugw("product_url_rejected", "kind", out.Kind.String())
	}
	return out
}

// Add resolves rawText and either attaches the known product to userID or
// queues the canonical URL for crawling.
func (s *Service) Add(ctx context.Context, userID, rawText string) (AddResult, error) {
	out := s.Resolve(rawText)
	res := AddResult{Outcome: out, Message: Message(out.Kind)}
	if !out.Resolved() {
		res.Status = StatusRejected
		s.metrics.ObserveProductAdd(string(res.Status))
		return res, nil
	}

	product, err := s.store.FindProductByFingerprint(ctx, out.Fingerprint)
	if err != nil {
		return AddResult{}, fmt.Errorf("find product: %w", err)
	}

	if product != nil {
		_, created, err := s.store.LinkUserProduct(ctx, userID, product.ID)
		if err != nil {
			return AddResult{}, fmt.Errorf("link user product: %w", err)
		}
		res.ProductID = product.ID
		res.Status = StatusAlreadyTracked
		if created {
			res.Status = StatusAdded
		}
		s.logger.Infow("product_add_linked",
			"user_id", userID,
			"product_id", product.ID,
			"fingerprint", out.Fingerprint,
			"status", res.Status,
		)
		s.metrics.ObserveProductAdd(string(res.Status))
		return res, nil
	}

	res.EventID = crawlevents.EventIDForFingerprint(out.Fingerprint)

	if s.guard != nil && !s.guard.Acquire(ctx, out.Fingerprint, userID) {
		res.Status = StatusAlreadyQueued
		s.metrics.ObserveProductAdd(string(res.Status))
		return res, nil
	}

	created, err := s.store.EnqueueForCrawling(ctx, dao.EnqueueForCrawlingInput{
		Fingerprint: out.Fingerprint,
		URL:         out.CanonicalURL,
		Shop:        out.Shop,
		RequestedBy: userID,
	})
	if err != nil {
		s.release(ctx, out.Fingerprint, userID)
		return AddResult{}, fmt.Errorf("enqueue for crawling: %w", err)
	}
	if !created {
		res.Status = StatusAlreadyQueued
		s.metrics.ObserveProductAdd(string(res.Status))
		return res, nil
	}

	if s.publisher == nil {
		s.rollback(ctx, out.Fingerprint, userID)
		return AddResult{}, crawlevents.ErrPublisherDisabled
	}

	env := crawlevents.CrawlRequested{
		EventName: crawlevents.CrawlRequestedEventName,
		EventID:   res.EventID,
		TS:        s.now().UTC(),
		Data: crawlevents.CrawlRequestedData{
			URL:         out.CanonicalURL,
			Fingerprint: out.Fingerprint,
			Shop:        out.Shop,
			RequestedBy: userID,
		},
	}
	if err := s.publisher.PublishCrawlRequest(ctx, env); err != nil {
		s.rollback(ctx, out.Fingerprint, userID)
		if errors.Is(err, crawlevents.ErrPublisherDisabled) {
			return AddResult{}, err
		}
		return AddResult{}, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	res.Status = StatusQueued
	s.logger.Infow("product_add_enqueued",
		"user_id", userID,
		"shop", out.Shop,
		"url", out.CanonicalURL,
		"event_id", res.EventID,
	)
	s.metrics.ObserveProductAdd(string(res.Status))
	return res, nil
}

// rollback undoes a recorded request whose message was never sent.
func (s *Service) rollback(ctx context.Context, fingerprint, userID string) {
	if err := s.store.CancelCrawlRequest(ctx, fingerprint, userID); err != nil {
		s.logger.Errorw("crawl_request_cancel_failed", "fingerprint", fingerprint, "user_id", userID, "err", err)
	}
	s.release(ctx, fingerprint, userID)
}

func (s *Service) release(ctx context.Context, fingerprint, userID string) {
	if s.guard != nil {
		s.guard.Release(ctx, fingerprint, userID)
	}
}
