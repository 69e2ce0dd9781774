package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Env string

const (
	Dev        Env = "development"
	Test       Env = "test"
	Preview    Env = "preview"
	Production Env = "production"
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort int
	ENV     Env

	LogLevel string
	// Optional log file, rotated by size. stderr only when empty.
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int

	// Per-client-IP token bucket on the HTTP API. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int

	// Path to a YAML/JSON shop catalog. Built-in shops are used when empty.
	ShopsFile string

	// "amqp" (default) or "inngest".
	EnqueueBackend string

	// Postgres (optional; enabled only when DBHost + DBName are set).
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int
	DBName     string

	// Redis (optional; enabled only when RedisHost is set).
	RedisUser     string
	RedisPassword string
	RedisHost     string
	RedisPort     int
	RedisScheme   string

	SQLite   SQLiteConfig
	RabbitMQ RabbitMQConfig
	Inngest  InngestConfig
}

// SQLiteConfig covers both a local file (modernc) and a Turso remote (libsql://).
type SQLiteConfig struct {
	DSN   string
	Token string
}

type RabbitMQConfig struct {
	URL             string
	Exchange        string
	Queue           string
	RoutingKey      string
	ResultQueue     string
	ResultRouting   string
	Prefetch        int
	DeclareTopology bool
}

type InngestConfig struct {
	AppID      string
	Dev        string
	SigningKey string
	EventKey   string
	ServeHost  string
	ServePath  string
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "pricewatch")
	v.SetDefault("APP_ENV", string(Dev))
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 10)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("ENQUEUE_BACKEND", "amqp")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_SCHEME", "redis")

	v.SetDefault("RABBITMQ_EXCHANGE", "events")
	v.SetDefault("RABBITMQ_QUEUE", "crawler.url.requested.v1")
	v.SetDefault("RABBITMQ_ROUTING_KEY", "crawler.url.requested.v1")
	v.SetDefault("RABBITMQ_RESULT_QUEUE", "crawler.product.crawled.v1")
	v.SetDefault("RABBITMQ_RESULT_ROUTING_KEY", "crawler.product.crawled.v1")
	v.SetDefault("RABBITMQ_PREFETCH", 1)
	v.SetDefault("RABBITMQ_DECLARE_TOPOLOGY", true)

	v.SetDefault("INNGEST_SERVE_PATH", "/api/inngest")

	return v
}

func NewConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName: v.GetString("APP_NAME"),
		AppEnv:  v.GetString("APP_ENV"),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFile:        strings.TrimSpace(v.GetString("LOG_FILE")),
		LogMaxSizeMB:   v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups:  v.GetInt("LOG_MAX_BACKUPS"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		ShopsFile:      strings.TrimSpace(v.GetString("SHOPS_FILE")),
		EnqueueBackend: strings.ToLower(strings.TrimSpace(v.GetString("ENQUEUE_BACKEND"))),

		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetInt("DB_PORT"),
		DBName:     v.GetString("DB_NAME"),

		RedisUser:     v.GetString("REDIS_USER"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisScheme:   v.GetString("REDIS_SCHEME"),

		SQLite: SQLiteConfig{
			DSN:   v.GetString("SQLITE_DSN"),
			Token: v.GetString("TURSO_AUTH_TOKEN"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:             v.GetString("RABBITMQ_URL"),
			Exchange:        v.GetString("RABBITMQ_EXCHANGE"),
			Queue:           v.GetString("RABBITMQ_QUEUE"),
			RoutingKey:      v.GetString("RABBITMQ_ROUTING_KEY"),
			ResultQueue:     v.GetString("RABBITMQ_RESULT_QUEUE"),
			ResultRouting:   v.GetString("RABBITMQ_RESULT_ROUTING_KEY"),
			Prefetch:        v.GetInt("RABBITMQ_PREFETCH"),
			DeclareTopology: v.GetBool("RABBITMQ_DECLARE_TOPOLOGY"),
		},
		Inngest: InngestConfig{
			AppID:      v.GetString("INNGEST_APP_ID"),
			Dev:        v.GetString("INNGEST_DEV"),
			SigningKey: v.GetString("INNGEST_SIGNING_KEY"),
			EventKey:   v.GetString("INNGEST_EVENT_KEY"),
			ServeHost:  v.GetString("INNGEST_SERVE_HOST"),
			ServePath:  v.GetString("INNGEST_SERVE_PATH"),
		},
	}
	cfg.ENV = envFromString(cfg.AppEnv)

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return nil, fmt.Errorf("invalid APP_PORT %d", cfg.AppPort)
	}
	if cfg.DBPort <= 0 || cfg.DBPort > 65535 {
		return nil, fmt.Errorf("invalid DB_PORT %d", cfg.DBPort)
	}
	if cfg.RedisPort <= 0 || cfg.RedisPort > 65535 {
		return nil, fmt.Errorf("invalid REDIS_PORT %d", cfg.RedisPort)
	}
	if cfg.RateLimitRPS < 0 || (cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0) {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %v / RATE_LIMIT_BURST %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	switch cfg.EnqueueBackend {
	case "amqp", "inngest":
	default:
		return nil, fmt.Errorf("invalid ENQUEUE_BACKEND %q (expected amqp or inngest)", cfg.EnqueueBackend)
	}

	return cfg, nil
}

func envFromString(raw string) Env {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "test":
		return Test
	case "preview":
		return Preview
	case "production", "prod":
		return Production
	default:
		return Dev
	}
}
