package crawlworker

import (
	"context"

	"pricewatch/internal/app/products"
	"pricewatch/internal/pkg/crawlevents"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type CrawlResultHandler struct {
	recorder *products.ResultRecorder
	logger   *zap.SugaredLogger
}

type NewCrawlResultHandlerParams struct {
	fx.In

	Recorder *products.ResultRecorder
	Logger   *zap.SugaredLogger
}

func NewCrawlResultHandler(p NewCrawlResultHandlerParams) *CrawlResultHandler {
	return &CrawlResultHandler{recorder: p.Recorder, logger: p.Logger}
}

func (h *CrawlResultHandler) Handle(ctx context.Context, msg crawlevents.ProductCrawled) error {
	product, err := h.recorder.Record(ctx, msg)
	if err != nil {
		return err
	}

	h.logger.Infow("crawlworker_finished",
		"event_id", msg.EventID,
		"url", msg.Data.URL,
		"product_id", product.ID,
	)
	return nil
}
