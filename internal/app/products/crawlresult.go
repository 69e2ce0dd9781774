package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pricewatch/internal/app/products/dao"
	"pricewatch/internal/pkg/crawlevents"
	"pricewatch/internal/pkg/metrics"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// ErrUnresolvableResult marks a crawl result whose URL no longer resolves to a
// single product page. Retrying it cannot succeed.
var ErrUnresolvableResult = errors.New("crawl result url does not resolve to a product")

type CrawledProductWriter interface {
	UpsertCrawledProduct(ctx context.Context, in dao.UpsertCrawledProductInput) (*dao.Product, error)
}

// ResultRecorder persists what the crawler reported for a product page. The
// URL is resolved again so the stored fingerprint always matches what Add
// would compute.
type ResultRecorder struct {
	resolver Resolver
	store    CrawledProductWriter
	metrics  *metrics.Recorder
	logger   *zap.SugaredLogger
}

type NewResultRecorderParams struct {
	fx.In

	Resolver Resolver
	Store    CrawledProductWriter
	Metrics  *metrics.Recorder `optional:"true"`
	Logger   *zap.SugaredLogger
}

func NewResultRecorder(p NewResultRecorderParams) *ResultRecorder {
	return &ResultRecorder{
		resolver: p.Resolver,
		store:    p.Store,
		metrics:  p.Metrics,
		logger:   p.Logger,
	}
}

func (r *ResultRecorder) Record(ctx context.Context, msg crawlevents.ProductCrawled) (*dao.Product, error) {
	if name := strings.TrimSpace(msg.EventName); name != "" && name != crawlevents.ProductCrawledEventName {
		r.metrics.ObserveCrawlResult("rejected")
		return nil, fmt.Errorf("%w: unexpected event_name %s", ErrUnresolvableResult, name)
	}

	out := r.resolver.Resolve(msg.Data.URL)
	if !out.Resolved() {
		r.logger.Warnw("crawl_result_unresolvable",
			"event_id", msg.EventID,
			"url", msg.Data.URL,
			"kind", out.Kind.String(),
		)
		r.metrics.ObserveCrawlResult("rejected")
		return nil, fmt.Errorf("%w: %s", ErrUnresolvableResult, out.Kind)
	}

	product, err := r.store.UpsertCrawledProduct(ctx, dao.UpsertCrawledProductInput{
		Fingerprint: out.Fingerprint,
		Shop:        out.Shop,
		URL:         out.CanonicalURL,
		Title:       cleanTitle(msg.Data.Title),
		PriceMinor:  msg.Data.PriceMinor,
		Currency:    strings.ToUpper(strings.TrimSpace(msg.Data.Currency)),
		Available:   msg.Data.Available,
		CapturedAt:  msg.Data.CapturedAt,
	})
	if err != nil {
		r.metrics.ObserveCrawlResult("failed")
		return nil, fmt.Errorf("upsert crawled product: %w", err)
	}

	r.logger.Infow("crawl_result_recorded",
		"event_id", msg.EventID,
		"product_id", product.ID,
		"shop", out.Shop,
		"fingerprint", out.Fingerprint,
	)
	r.metrics.ObserveCrawlResult("stored")
	return product, nil
}

// cleanTitle composes the title to NFC and collapses whitespace runs, so
// shops that mix decomposed Cyrillic or non-breaking spaces store one form.
func cleanTitle(raw string) string {
	return strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
}
