package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"pricewatch/db/migrations"
)

// Migrate runs the embedded goose migrations with command (up, down, status, ...).
func Migrate(ctx context.Context, sqlDB *sql.DB, driverName, command string) error {
	store, err := goose.NewProvider(goose.Dialect(GooseDialect(driverName)), sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	switch command {
	case "up":
		_, err = store.Up(ctx)
	case "down":
		_, err = store.Down(ctx)
	case "status":
		_, err = store.Status(ctx)
	default:
		return fmt.Errorf("unsupported migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
