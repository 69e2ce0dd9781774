package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(NewViper())
	require.NoError(t, err)

	require.Equal(t, "pricewatch", cfg.AppName)
	require.Equal(t, 8080, cfg.AppPort)
	require.Equal(t, Dev, cfg.ENV)
	require.Equal(t, "amqp", cfg.EnqueueBackend)
	require.Equal(t, "events", cfg.RabbitMQ.Exchange)
	require.Equal(t, "crawler.url.requested.v1", cfg.RabbitMQ.RoutingKey)
	require.Equal(t, "crawler.product.crawled.v1", cfg.RabbitMQ.ResultQueue)
	require.Equal(t, 1, cfg.RabbitMQ.Prefetch)
	require.True(t, cfg.RabbitMQ.DeclareTopology)
	require.Empty(t, cfg.LogFile)
	require.Zero(t, cfg.RateLimitRPS)
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Parallel()

	v := NewViper()
	v.Set("APP_ENV", "prod")
	v.Set("ENQUEUE_BACKEND", " Inngest ")
	v.Set("SHOPS_FILE", " shops.yaml ")

	cfg, err := NewConfig(v)
	require.NoError(t, err)
	require.Equal(t, Production, cfg.ENV)
	require.Equal(t, "inngest", cfg.EnqueueBackend)
	require.Equal(t, "shops.yaml", cfg.ShopsFile)
}

func TestNewConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	cases := map[string]func(v *viper.Viper){
		"port":    func(v *viper.Viper) { v.Set("APP_PORT", 0) },
		"db port": func(v *viper.Viper) { v.Set("DB_PORT", 70000) },
		"backend": func(v *viper.Viper) { v.Set("ENQUEUE_BACKEND", "kafka") },
		"rate":    func(v *viper.Viper) { v.Set("RATE_LIMIT_RPS", -1) },
		"burst":   func(v *viper.Viper) { v.Set("RATE_LIMIT_RPS", 5); v.Set("RATE_LIMIT_BURST", 0) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v := NewViper()
			mutate(v)
			_, err := NewConfig(v)
			require.Error(t, err)
		})
	}
}
