package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"pricewatch/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Conn is the subset of *sqlx.DB used by the stores.
type Conn interface {
	sqlx.ExtContext
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type NewSQLXPostgresDBParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *zap.SugaredLogger
}

type PostgresOut struct {
	fx.Out

	DB *sqlx.DB `name:"postgres"`
}

func NewSQLXPostgresDB(p NewSQLXPostgresDBParams) (PostgresOut, error) {
	cfg := p.Cfg
	if strings.TrimSpace(cfg.DBHost) == "" || strings.TrimSpace(cfg.DBName) == "" {
		p.Logger.Infow("postgres disabled (missing DB_HOST/DB_NAME)")
		return PostgresOut{}, nil
	}

	db, err := sqlx.Open("pgx", PostgresDSN(cfg))
	if err != nil {
		return PostgresOut{}, err
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				_ = db.Close()
				return fmt.Errorf("postgres ping failed: %w", err)
			}
			p.Logger.Infow("postgres connected", "host", cfg.DBHost, "db", cfg.DBName)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				p.Logger.Warnw("postgres close failed", "err", err)
			}
			return nil
		},
	})

	return PostgresOut{DB: db}, nil
}

// PostgresDSN builds a postgres:// URL from the DB_* settings.
func PostgresDSN(cfg *config.Config) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.DBHost, cfg.DBPort),
		Path:   cfg.DBName,
	}
	if strings.TrimSpace(cfg.DBUser) != "" {
		if cfg.DBPassword == "" {
			u.User = url.User(cfg.DBUser)
		} else {
			u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
		}
	}
	return u.String()
}
