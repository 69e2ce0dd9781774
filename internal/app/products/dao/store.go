package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pricewatch/db"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	CrawlStatusQueued = "QUEUED"
	CrawlStatusDone   = "DONE"
)

type Product struct {
	ID          string         `db:"id" json:"id"`
	Fingerprint string         `db:"fingerprint" json:"fingerprint"`
	Shop        string         `db:"shop" json:"shop"`
	URL         string         `db:"url" json:"url"`
	Title       sql.NullString `db:"title" json:"-"`
	PriceMinor  sql.NullInt64  `db:"price_minor" json:"-"`
	Currency    sql.NullString `db:"currency" json:"-"`
	Available   bool           `db:"available" json:"available"`
	CreatedAtMs int64          `db:"created_at_ms" json:"created_at_ms"`
	UpdatedAtMs int64          `db:"updated_at_ms" json:"updated_at_ms"`
}

type UserProduct struct {
	ID          string `db:"id" json:"id"`
	UserID      string `db:"user_id" json:"user_id"`
	ProductID   string `db:"product_id" json:"product_id"`
	CreatedAtMs int64  `db:"created_at_ms" json:"created_at_ms"`
}

type CrawlRequest struct {
	ID          string `db:"id"`
	Fingerprint string `db:"fingerprint"`
	URL         string `db:"url"`
	Shop        string `db:"shop"`
	RequestedBy string `db:"requested_by"`
	Status      string `db:"status"`
	CreatedAtMs int64  `db:"created_at_ms"`
}

type PricePoint struct {
	ID           string         `db:"id"`
	ProductID    string         `db:"product_id"`
	PriceMinor   sql.NullInt64  `db:"price_minor"`
	Currency     sql.NullString `db:"currency"`
	Available    bool           `db:"available"`
	CapturedAtMs int64          `db:"captured_at_ms"`
}

type ProductStore struct {
	conn      db.Conn
	logger    *zap.SugaredLogger
	validator *validator.Validate
	now       func() time.Time
}

type NewProductStoreParams struct {
	fx.In

	Conn   db.Conn
	Logger *zap.SugaredLogger
}

func NewProductStore(p NewProductStoreParams) *ProductStore {
	return &ProductStore{
		conn:      p.Conn,
		logger:    p.Logger,
		validator: validator.New(),
		now:       time.Now,
	}
}

// FindProductByFingerprint returns nil, nil when no product has fp.
func (s *ProductStore) FindProductByFingerprint(ctx context.Context, fp string) (*Product, error) {
	var p Product
	err := sqlx.GetContext(ctx, s.conn, &p, s.conn.Rebind(`
SELECT id, fingerprint, shop, url, title, price_minor, currency, available, created_at_ms, updated_at_ms
FROM products
WHERE fingerprint = ?
`), fp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select product by fingerprint: %w", err)
	}
	return &p, nil
}

type EnqueueForCrawlingInput struct {
	Fingerprint string `validate:"required,len=64,hexadecimal"`
	URL         string `validate:"required,url"`
	Shop        string `validate:"required"`
	RequestedBy string `validate:"required"`
}

// EnqueueForCrawling records a crawl request. It is idempotent per
// (fingerprint, requested_by): created is false when the pair already exists.
func (s *ProductStore) EnqueueForCrawling(ctx context.Context, in EnqueueForCrawlingInput) (created bool, err error) {
	if err := s.validator.Struct(in); err != nil {
		return false, fmt.Errorf("validate enqueue input: %w", err)
	}

	res, err := s.conn.ExecContext(ctx, s.conn.Rebind(`
INSERT INTO crawl_requests (
  id,
  fingerprint,
  url,
  shop,
  requested_by,
  status,
  created_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (fingerprint, requested_by) DO NOTHING
`), uuid.NewString(), in.Fingerprint, in.URL, in.Shop, in.RequestedBy, CrawlStatusQueued, s.nowMs())
	if err != nil {
		return false, fmt.Errorf("insert crawl_requests: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("crawl_requests rows affected: %w", err)
	}

	s.logger.Debugw("crawl_request_recorded",
		"fingerprint", in.Fingerprint,
		"requested_by", in.RequestedBy,
		"created", n > 0,
	)
	return n > 0, nil
}

// CancelCrawlRequest removes a request that never reached the crawler so the
// same user can enqueue it again.
func (s *ProductStore) CancelCrawlRequest(ctx context.Context, fingerprint, requestedBy string) error {
	if _, err := s.conn.ExecContext(ctx, s.conn.Rebind(`
DELETE FROM crawl_requests
WHERE fingerprint = ? AND requested_by = ? AND status = ?
`), fingerprint, requestedBy, CrawlStatusQueued); err != nil {
		return fmt.Errorf("delete crawl_requests: %w", err)
	}
	return nil
}

// FindUserProduct returns nil, nil when the user does not track the product.
func (s *ProductStore) FindUserProduct(ctx context.Context, userID, productID string) (*UserProduct, error) {
	var up UserProduct
	err := sqlx.GetContext(ctx, s.conn, &up, s.conn.Rebind(`
SELECT id, user_id, product_id, created_at_ms
FROM user_products
WHERE user_id = ? AND product_id = ?
`), userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user product: %w", err)
	}
	return &up, nil
}

// LinkUserProduct attaches a product to a user. created is false when the
// link already existed.
func (s *ProductStore) LinkUserProduct(ctx context.Context, userID, productID string) (up *UserProduct, created bool, err error) {
	if userID == "" || productID == "" {
		return nil, false, fmt.Errorf("link user product: user id and product id are required")
	}

	res, err := s.conn.ExecContext(ctx, s.conn.Rebind(`
INSERT INTO user_products (id, user_id, product_id, created_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, product_id) DO NOTHING
`), uuid.NewString(), userID, productID, s.nowMs())
	if err != nil {
		return nil, false, fmt.Errorf("insert user_products: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("user_products rows affected: %w", err)
	}

	up, err = s.FindUserProduct(ctx, userID, productID)
	if err != nil {
		return nil, false, err
	}
	if up == nil {
		return nil, false, fmt.Errorf("user product %s/%s vanished after insert", userID, productID)
	}
	return up, n > 0, nil
}

type UpsertCrawledProductInput struct {
	Fingerprint string `validate:"required,len=64,hexadecimal"`
	Shop        string `validate:"required"`
	URL         string `validate:"required,url"`
	Title       string
	PriceMinor  *int64 `validate:"omitempty,min=0"`
	Currency    string `validate:"omitempty,len=3"`
	Available   bool
	CapturedAt  time.Time
}

// UpsertCrawledProduct inserts or refreshes the product keyed by fingerprint
// and appends a price_history point. Every user with a QUEUED request for the
// fingerprint gets linked to the product and the requests move to DONE, all
// in one transaction.
func (s *ProductStore) UpsertCrawledProduct(ctx context.Context, in UpsertCrawledProductInput) (*Product, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, fmt.Errorf("validate upsert input: %w", err)
	}

	captured := in.CapturedAt
	if captured.IsZero() {
		captured = s.now()
	}
	capturedMs := captured.UnixMilli()
	nowMs := s.nowMs()

	title := nullString(in.Title)
	currency := nullString(in.Currency)
	price := sql.NullInt64{}
	if in.PriceMinor != nil {
		price = sql.NullInt64{Int64: *in.PriceMinor, Valid: true}
	}

	var linked int
	p, err := db.Tx(ctx, s.conn, func(tx *sqlx.Tx) (*Product, error) {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO products (
  id,
  fingerprint,
  shop,
  url,
  title,
  price_minor,
  currency,
  available,
  created_at_ms,
  updated_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (fingerprint) DO UPDATE SET
  title = COALESCE(excluded.title, products.title),
  price_minor = excluded.price_minor,
  currency = COALESCE(excluded.currency, products.currency),
  available = excluded.available,
  updated_at_ms = excluded.updated_at_ms
`), uuid.NewString(), in.Fingerprint, in.Shop, in.URL, title, price, currency, in.Available, nowMs, nowMs); err != nil {
			return nil, fmt.Errorf("upsert products: %w", err)
		}

		var p Product
		if err := sqlx.GetContext(ctx, tx, &p, tx.Rebind(`
SELECT id, fingerprint, shop, url, title, price_minor, currency, available, created_at_ms, updated_at_ms
FROM products
WHERE fingerprint = ?
`), in.Fingerprint); err != nil {
			return nil, fmt.Errorf("reload product: %w", err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO price_history (id, product_id, price_minor, currency, available, captured_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
`), uuid.NewString(), p.ID, price, currency, in.Available, capturedMs); err != nil {
			return nil, fmt.Errorf("insert price_history: %w", err)
		}

		var requesters []string
		if err := sqlx.SelectContext(ctx, tx, &requesters, tx.Rebind(`
SELECT requested_by
FROM crawl_requests
WHERE fingerprint = ? AND status = ?
`), in.Fingerprint, CrawlStatusQueued); err != nil {
			return nil, fmt.Errorf("select queued requesters: %w", err)
		}

		for _, userID := range requesters {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO user_products (id, user_id, product_id, created_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, product_id) DO NOTHING
`), uuid.NewString(), userID, p.ID, nowMs); err != nil {
				return nil, fmt.Errorf("link requester %s: %w", userID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`
UPDATE crawl_requests
SET status = ?
WHERE fingerprint = ? AND status = ?
`), CrawlStatusDone, in.Fingerprint, CrawlStatusQueued); err != nil {
			return nil, fmt.Errorf("complete crawl_requests: %w", err)
		}
		linked = len(requesters)

		return &p, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("product_upserted_from_crawl",
		"id", p.ID,
		"fingerprint", p.Fingerprint,
		"shop", p.Shop,
		"linked_requesters", linked,
	)
	return p, nil
}

// PriceHistory lists a product's points, oldest first.
func (s *ProductStore) PriceHistory(ctx context.Context, productID string) ([]PricePoint, error) {
	var points []PricePoint
	err := sqlx.SelectContext(ctx, s.conn, &points, s.conn.Rebind(`
SELECT id, product_id, price_minor, currency, available, captured_at_ms
FROM price_history
WHERE product_id = ?
ORDER BY captured_at_ms ASC
`), productID)
	if err != nil {
		return nil, fmt.Errorf("select price_history: %w", err)
	}
	return points, nil
}

func (s *ProductStore) nowMs() int64 { return s.now().UnixMilli() }

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
