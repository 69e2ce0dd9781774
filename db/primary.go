package db

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type NewPrimaryConnParams struct {
	fx.In

	Postgres *sqlx.DB `name:"postgres" optional:"true"`
	SQLite   *sqlx.DB `name:"sqlite" optional:"true"`
	Logger   *zap.SugaredLogger
}

// NewPrimaryConn picks the store connection: Postgres when configured,
// otherwise SQLite, otherwise a disabled connection.
func NewPrimaryConn(p NewPrimaryConnParams) Conn {
	switch {
	case p.Postgres != nil:
		p.Logger.Infow("primary_db_selected", "driver", "pgx")
		return p.Postgres
	case p.SQLite != nil:
		p.Logger.Infow("primary_db_selected", "driver", p.SQLite.DriverName())
		return p.SQLite
	default:
		p.Logger.Warnw("primary_db_disabled", "reason", ErrDatabaseDisabled.Error())
		return NewDisabledConn()
	}
}

// GooseDialect maps a sqlx driver name to the goose dialect name.
func GooseDialect(driverName string) string {
	switch driverName {
	case "pgx", "postgres":
		return "postgres"
	default:
		return "sqlite3"
	}
}
