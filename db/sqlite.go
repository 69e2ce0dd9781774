package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"pricewatch/config"

	// Turso "remote only" driver (libsql://, https://)
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	// Local sqlite files
	_ "modernc.org/sqlite"
)

var ErrDatabaseDisabled = errors.New("database disabled: set DB_HOST/DB_NAME or SQLITE_DSN")

// --- disabled connection (keeps app booting, but fails fast when used) ---

type disabledConnector struct{}

func (disabledConnector) Connect(context.Context) (driver.Conn, error) {
	return nil, ErrDatabaseDisabled
}
func (disabledConnector) Driver() driver.Driver { return disabledDriver{} }

type disabledDriver struct{}

func (disabledDriver) Open(string) (driver.Conn, error) { return nil, ErrDatabaseDisabled }

type disabledConn struct {
	x *sqlx.DB
}

// NewDisabledConn returns a Conn whose every call fails with ErrDatabaseDisabled.
func NewDisabledConn() Conn {
	return disabledConn{x: sqlx.NewDb(sql.OpenDB(disabledConnector{}), "disabled")}
}

func (c disabledConn) DriverName() string                               { return "disabled" }
func (c disabledConn) Rebind(query string) string                       { return c.x.Rebind(query) }
func (c disabledConn) BindNamed(q string, a any) (string, []any, error) { return c.x.BindNamed(q, a) }

func (c disabledConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, ErrDatabaseDisabled
}
func (c disabledConn) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return nil, ErrDatabaseDisabled
}
func (c disabledConn) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	return c.x.QueryRowxContext(ctx, query, args...)
}
func (c disabledConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, ErrDatabaseDisabled
}
func (c disabledConn) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, ErrDatabaseDisabled
}

// --- Fx output ---

type SQLiteSQLXOut struct {
	fx.Out

	DB *sqlx.DB `name:"sqlite"`
}

type NewSQLXSQLiteDBParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *zap.SugaredLogger
}

// NewSQLXSQLiteDB opens SQLITE_DSN: a Turso remote (libsql://...) through
// libsql-client-go, anything else as a local modernc sqlite file.
func NewSQLXSQLiteDB(p NewSQLXSQLiteDBParams) (SQLiteSQLXOut, error) {
	dsn := strings.TrimSpace(p.Cfg.SQLite.DSN)
	if dsn == "" {
		p.Logger.Infow("sqlite_disabled")
		return SQLiteSQLXOut{}, nil
	}

	driverName := SQLiteDriverFor(dsn)
	if driverName == "libsql" {
		dsn = EnsureAuthTokenQuery(dsn, p.Cfg.SQLite.Token)
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return SQLiteSQLXOut{}, fmt.Errorf("open sqlite db: %w", err)
	}

	if driverName == "libsql" {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// single writer for local files
		db.SetMaxOpenConns(1)
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				_ = db.Close()
				return fmt.Errorf("ping sqlite db: %w", err)
			}
			p.Logger.Infow("sqlite_enabled", "driver", driverName)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return SQLiteSQLXOut{DB: db}, nil
}

// SQLiteDriverFor picks the database/sql driver name for a sqlite DSN.
func SQLiteDriverFor(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "libsql://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

// EnsureAuthTokenQuery appends authToken to a remote libsql DSN unless one is present.
func EnsureAuthTokenQuery(dsn, token string) string {
	if token == "" {
		return dsn
	}

	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return dsn
	}

	if strings.EqualFold(u.Scheme, "file") || strings.EqualFold(u.Scheme, "sqlite") {
		return dsn
	}

	q := u.Query()
	if q.Get("authToken") != "" {
		return dsn
	}

	q.Set("authToken", token)
	u.RawQuery = q.Encode()
	return u.String()
}
