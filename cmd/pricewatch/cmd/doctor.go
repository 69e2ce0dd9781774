package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"pricewatch/cache"
	"pricewatch/config"
	"pricewatch/db"
	"pricewatch/internal/envutil"
	pkginngest "pricewatch/internal/pkg/inngest"
)

type check struct {
	name string
	// run returns skipped=true when the dependency is not configured.
	run func(ctx context.Context, cfg *config.Config) (skipped bool, err error)
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the shop catalog and every configured backing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig(config.NewViper())
			if err != nil {
				return err
			}
			checks := append([]check{{name: "shops", run: func(context.Context, *config.Config) (bool, error) {
				_, err := opts.registry()
				return false, err
			}}}, defaultChecks()...)

			failed := runChecks(cmd.Context(), cmd.OutOrStdout(), cfg, checks, timeout)
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", envutil.Duration(os.Getenv, "PRICEWATCH_DOCTOR_TIMEOUT", 3*time.Second), "Per-check timeout")
	return cmd
}

func runChecks(ctx context.Context, out io.Writer, cfg *config.Config, checks []check, timeout time.Duration) int {
	if ctx == nil {
		ctx = context.Background()
	}

	failed := 0
	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		skipped, err := c.run(cctx, cfg)
		cancel()

		switch {
		case err != nil:
			failed++
			fmt.Fprintf(out, "❌ %s: %v\n", c.name, err)
		case skipped:
			fmt.Fprintf(out, "-  %s: not configured\n", c.name)
		default:
			fmt.Fprintf(out, "✅ %s: OK\n", c.name)
		}
	}
	return failed
}

func defaultChecks() []check {
	return []check{
		{name: "postgres", run: checkPostgres},
		{name: "sqlite", run: checkSQLite},
		{name: "redis", run: checkRedis},
		{name: "rabbitmq", run: checkRabbitMQ},
		{name: "inngest", run: checkInngest},
	}
}

func checkPostgres(ctx context.Context, cfg *config.Config) (bool, error) {
	if strings.TrimSpace(cfg.DBHost) == "" || strings.TrimSpace(cfg.DBName) == "" {
		return true, nil
	}
	return false, ping(ctx, "pgx", db.PostgresDSN(cfg))
}

func checkSQLite(ctx context.Context, cfg *config.Config) (bool, error) {
	dsn := strings.TrimSpace(cfg.SQLite.DSN)
	if dsn == "" {
		return true, nil
	}
	driver := db.SQLiteDriverFor(dsn)
	if driver == "libsql" {
		dsn = db.EnsureAuthTokenQuery(dsn, cfg.SQLite.Token)
	}
	return false, ping(ctx, driver, dsn)
}

func ping(ctx context.Context, driver, dsn string) error {
	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.PingContext(ctx)
}

func checkRedis(ctx context.Context, cfg *config.Config) (bool, error) {
	if strings.TrimSpace(cfg.RedisHost) == "" {
		return true, nil
	}
	client := redis.NewClient(cache.RedisOptions(cfg))
	defer client.Close()
	return false, client.Ping(ctx).Err()
}

func checkRabbitMQ(ctx context.Context, cfg *config.Config) (bool, error) {
	url := strings.TrimSpace(cfg.RabbitMQ.URL)
	if url == "" {
		return true, nil
	}

	dialTimeout := 3 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		dialTimeout = time.Until(deadline)
	}
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return false, err
	}
	return false, conn.Close()
}

func checkInngest(ctx context.Context, cfg *config.Config) (bool, error) {
	if !pkginngest.Enabled(cfg) {
		return true, nil
	}
	if cfg.Inngest.Dev != "1" && strings.TrimSpace(cfg.Inngest.EventKey) == "" {
		return false, fmt.Errorf("INNGEST_EVENT_KEY is required outside dev mode")
	}
	_, err := pkginngest.NewInngestClient(cfg)
	return false, err
}
