package inngest

import (
	"context"
	"fmt"
	"testing"

	"pricewatch/internal/app/products"
	"pricewatch/internal/app/products/dao"
	"pricewatch/internal/pkg/crawlevents"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorderFunc func(ctx context.Context, msg crawlevents.ProductCrawled) (*dao.Product, error)

func (f recorderFunc) Record(ctx context.Context, msg crawlevents.ProductCrawled) (*dao.Product, error) {
	return f(ctx, msg)
}

func TestCrawlResultFunction_Record(t *testing.T) {
	var got crawlevents.ProductCrawled
	f := &CrawlResultFunction{
		recorder: recorderFunc(func(ctx context.Context, msg crawlevents.ProductCrawled) (*dao.Product, error) {
			got = msg
			return &dao.Product{ID: "p-1"}, nil
		}),
		logger: zap.NewNop().Sugar(),
	}

	msg := crawlevents.ProductCrawled{
		EventName: crawlevents.ProductCrawledEventName,
		EventID:   "evt-1",
		Data:      crawlevents.ProductCrawledData{URL: "https://www.ozon.ru/product/42", Title: "Phone"},
	}
	id, err := f.record(context.Background(), msg)
	require.NoError(t, err)
	require.Equal(t, "p-1", id)
	require.Equal(t, msg, got)
}

func TestCrawlResultFunction_RecordErrors(t *testing.T) {
	tests := map[string]struct {
		err error
	}{
		"unresolvable": {err: fmt.Errorf("%w: unsupported_shop", products.ErrUnresolvableResult)},
		"transient":    {err: fmt.Errorf("upsert crawled product: timeout")},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := &CrawlResultFunction{
				recorder: recorderFunc(func(ctx context.Context, msg crawlevents.ProductCrawled) (*dao.Product, error) {
					return nil, tt.err
				}),
				logger: zap.NewNop().Sugar(),
			}

			_, err := f.record(context.Background(), crawlevents.ProductCrawled{})
			require.Error(t, err)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
