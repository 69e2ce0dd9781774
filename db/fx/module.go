package fx

import (
	"pricewatch/db"

	"go.uber.org/fx"
)

// DriversModule opens every configured database as a named *sqlx.DB
// ("postgres", "sqlite"). Unconfigured ones are nil.
var DriversModule = fx.Module(
	"sqlx-drivers",
	fx.Provide(
		db.NewSQLXPostgresDB,
		db.NewSQLXSQLiteDB,
	),
)

// PrimaryModule adds the db.Conn the stores use.
var PrimaryModule = fx.Options(
	DriversModule,
	fx.Provide(db.NewPrimaryConn),
)
