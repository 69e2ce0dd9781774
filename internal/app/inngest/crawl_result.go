package inngest

import (
	"context"
	"errors"

	"pricewatch/internal/app/products"
	"pricewatch/internal/app/products/dao"
	"pricewatch/internal/pkg/crawlevents"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type resultRecorder interface {
	Record(ctx context.Context, msg crawlevents.ProductCrawled) (*dao.Product, error)
}

// CrawlResultFunction stores crawler output delivered as an Inngest event.
type CrawlResultFunction struct {
	recorder resultRecorder
	logger   *zap.SugaredLogger
}

type NewCrawlResultFunctionParams struct {
	fx.In

	Recorder *products.ResultRecorder
	Logger   *zap.SugaredLogger
}

func NewCrawlResultFunction(p NewCrawlResultFunctionParams) *CrawlResultFunction {
	return &CrawlResultFunction{recorder: p.Recorder, logger: p.Logger}
}

func (f *CrawlResultFunction) Handle(ctx context.Context, input inngestgo.Input[crawlevents.ProductCrawledData]) (any, error) {
	msg := crawlevents.ProductCrawled{
		EventName: input.Event.Name,
		Data:      input.Event.Data,
	}
	if input.Event.ID != nil {
		msg.EventID = *input.Event.ID
	}

	productID, err := step.Run(ctx, "record-crawl-result", func(ctx context.Context) (string, error) {
		return f.record(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{"product_id": productID}, nil
}

func (f *CrawlResultFunction) record(ctx context.Context, msg crawlevents.ProductCrawled) (string, error) {
	product, err := f.recorder.Record(ctx, msg)
	if err != nil {
		f.logger.Errorw("inngest_crawl_result_failed", "event_id", msg.EventID, "url", msg.Data.URL, "err", err)
		if errors.Is(err, products.ErrUnresolvableResult) {
			return "", inngestgo.NoRetryError(err)
		}
		return "", err
	}
	return product.ID, nil
}
