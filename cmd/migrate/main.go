package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"pricewatch/db"
	dbfx "pricewatch/db/fx"
	appfx "pricewatch/internal/app/fx"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type MigrateCmd string

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		dbfx.DriversModule,
		fx.Supply(MigrateCmd(cmd)),
		fx.Invoke(registerMigrateHook),
	)

	startCtx, startCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type migrateHookParams struct {
	fx.In

	Lc       fx.Lifecycle
	Logger   *zap.SugaredLogger
	Postgres *sqlx.DB `name:"postgres" optional:"true"`
	SQLite   *sqlx.DB `name:"sqlite" optional:"true"`

	Cmd MigrateCmd
}

// registerMigrateHook migrates the same database the services would select:
// Postgres when configured, otherwise SQLite.
func registerMigrateHook(p migrateHookParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			target := p.Postgres
			if target == nil {
				target = p.SQLite
			}
			if target == nil {
				return errors.New("no database configured: set DB_HOST/DB_NAME or SQLITE_DSN")
			}

			p.Logger.Infow("goose_run_start", "cmd", string(p.Cmd), "driver", target.DriverName())
			if err := db.Migrate(ctx, target.DB, target.DriverName(), string(p.Cmd)); err != nil {
				return err
			}
			p.Logger.Infow("goose_run_done", "cmd", string(p.Cmd))
			return nil
		},
	})
}
