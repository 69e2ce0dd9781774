package dao

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pricewatch/db"

	_ "modernc.org/sqlite"
)

var testFingerprint = strings.Repeat("ab", 32)

func newTestStore(t *testing.T) (*ProductStore, *sqlx.DB) {
	t.Helper()

	sqlDB, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(context.Background(), sqlDB.DB, sqlDB.DriverName(), "up"))

	s := NewProductStore(NewProductStoreParams{Conn: sqlDB, Logger: zap.NewNop().Sugar()})
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return s, sqlDB
}

func TestFindProductByFingerprint_Missing(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	p, err := s.FindProductByFingerprint(context.Background(), testFingerprint)
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestEnqueueForCrawling_Idempotent(t *testing.T) {
	t.Parallel()

	s, sqlDB := newTestStore(t)
	ctx := context.Background()

	in := EnqueueForCrawlingInput{
		Fingerprint: testFingerprint,
		URL:         "https://www.ozon.ru/product/42",
		Shop:        "ozon",
		RequestedBy: "user-1",
	}

	created, err := s.EnqueueForCrawling(ctx, in)
	require.NoError(t, err)
	require.True(t, created)

	created, err = s.EnqueueForCrawling(ctx, in)
	require.NoError(t, err)
	require.False(t, created)

	in.RequestedBy = "user-2"
	created, err = s.EnqueueForCrawling(ctx, in)
	require.NoError(t, err)
	require.True(t, created)

	var rows []CrawlRequest
	require.NoError(t, sqlDB.Select(&rows, `SELECT * FROM crawl_requests ORDER BY requested_by`))
	require.Len(t, rows, 2)
	require.Equal(t, CrawlStatusQueued, rows[0].Status)
	require.Equal(t, int64(1_700_000_000_000), rows[0].CreatedAtMs)
}

func TestCancelCrawlRequest_AllowsRequeue(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	in := EnqueueForCrawlingInput{
		Fingerprint: testFingerprint,
		URL:         "https://www.ozon.ru/product/42",
		Shop:        "ozon",
		RequestedBy: "user-1",
	}
	created, err := s.EnqueueForCrawling(ctx, in)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, s.CancelCrawlRequest(ctx, testFingerprint, "user-1"))

	created, err = s.EnqueueForCrawling(ctx, in)
	require.NoError(t, err)
	require.True(t, created)
}

func TestEnqueueForCrawling_Validates(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	_, err := s.EnqueueForCrawling(context.Background(), EnqueueForCrawlingInput{
		Fingerprint: "short",
		URL:         "https://www.ozon.ru/product/42",
		Shop:        "ozon",
		RequestedBy: "user-1",
	})
	require.Error(t, err)
}

func TestUpsertCrawledProduct_AndLinkUser(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	price := int64(9_999_00)
	p, err := s.UpsertCrawledProduct(ctx, UpsertCrawledProductInput{
		Fingerprint: testFingerprint,
		Shop:        "ozon",
		URL:         "https://www.ozon.ru/product/42",
		Title:       "Phone",
		PriceMinor:  &price,
		Currency:    "RUB",
		Available:   true,
		CapturedAt:  time.UnixMilli(1_000),
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "Phone", p.Title.String)
	require.True(t, p.Available)

	price = 8_999_00
	again, err := s.UpsertCrawledProduct(ctx, UpsertCrawledProductInput{
		Fingerprint: testFingerprint,
		Shop:        "ozon",
		URL:         "https://www.ozon.ru/product/42",
		PriceMinor:  &price,
		Available:   false,
		CapturedAt:  time.UnixMilli(2_000),
	})
	require.NoError(t, err)
	require.Equal(t, p.ID, again.ID)
	require.Equal(t, "Phone", again.Title.String, "title kept when crawl omits it")
	require.Equal(t, "RUB", again.Currency.String)
	require.Equal(t, int64(8_999_00), again.PriceMinor.Int64)
	require.False(t, again.Available)

	history, err := s.PriceHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, int64(1_000), history[0].CapturedAtMs)
	require.Equal(t, int64(9_999_00), history[0].PriceMinor.Int64)
	require.True(t, history[0].Available)

	found, err := s.FindProductByFingerprint(ctx, testFingerprint)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, p.ID, found.ID)

	none, err := s.FindUserProduct(ctx, "user-1", p.ID)
	require.NoError(t, err)
	require.Nil(t, none)

	up, created, err := s.LinkUserProduct(ctx, "user-1", p.ID)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "user-1", up.UserID)

	up2, created, err := s.LinkUserProduct(ctx, "user-1", p.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, up.ID, up2.ID)
}

func TestUpsertCrawledProduct_LinksQueuedRequesters(t *testing.T) {
	t.Parallel()

	s, sqlDB := newTestStore(t)
	ctx := context.Background()

	for _, user := range []string{"user-1", "user-2"} {
		created, err := s.EnqueueForCrawling(ctx, EnqueueForCrawlingInput{
			Fingerprint: testFingerprint,
			URL:         "https://www.ozon.ru/product/42",
			Shop:        "ozon",
			RequestedBy: user,
		})
		require.NoError(t, err)
		require.True(t, created)
	}

	p, err := s.UpsertCrawledProduct(ctx, UpsertCrawledProductInput{
		Fingerprint: testFingerprint,
		Shop:        "ozon",
		URL:         "https://www.ozon.ru/product/42",
		Available:   true,
	})
	require.NoError(t, err)

	for _, user := range []string{"user-1", "user-2"} {
		up, err := s.FindUserProduct(ctx, user, p.ID)
		require.NoError(t, err)
		require.NotNil(t, up, "queued requester %s must be linked", user)
	}

	var queued int
	require.NoError(t, sqlDB.Get(&queued, `SELECT COUNT(*) FROM crawl_requests WHERE status = 'QUEUED'`))
	require.Zero(t, queued)

	// A later crawl of the same product links nobody twice.
	_, err = s.UpsertCrawledProduct(ctx, UpsertCrawledProductInput{
		Fingerprint: testFingerprint,
		Shop:        "ozon",
		URL:         "https://www.ozon.ru/product/42",
	})
	require.NoError(t, err)

	var links int
	require.NoError(t, sqlDB.Get(&links, `SELECT COUNT(*) FROM user_products WHERE product_id = ?`, p.ID))
	require.Equal(t, 2, links)
}

func TestUpsertCrawledProduct_Validates(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	_, err := s.UpsertCrawledProduct(context.Background(), UpsertCrawledProductInput{
		Fingerprint: testFingerprint,
		Shop:        "ozon",
		URL:         "not a url",
	})
	require.Error(t, err)
}

func TestStore_DisabledDatabase(t *testing.T) {
	t.Parallel()

	s := NewProductStore(NewProductStoreParams{Conn: db.NewDisabledConn(), Logger: zap.NewNop().Sugar()})

	_, err := s.FindProductByFingerprint(context.Background(), testFingerprint)
	require.ErrorIs(t, err, db.ErrDatabaseDisabled)
}
