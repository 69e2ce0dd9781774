package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func env(kv map[string]string) Getenv {
	return func(k string) string { return kv[k] }
}

func TestString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "shops.yaml", String(env(map[string]string{"SHOPS_FILE": " shops.yaml "}), "SHOPS_FILE", "x"))
	require.Equal(t, "x", String(env(map[string]string{"SHOPS_FILE": "  "}), "SHOPS_FILE", "x"))
	require.Equal(t, "x", String(nil, "SHOPS_FILE", "x"))
}

func TestBool(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{"1": true, "YES": true, "on": true, "0": false, "off": false, "n": false}
	for raw, want := range tests {
		require.Equal(t, want, Bool(env(map[string]string{"V": raw}), "V", !want), raw)
	}
	require.True(t, Bool(env(map[string]string{"V": "maybe"}), "V", true))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	require.Equal(t, 500*time.Millisecond, Duration(env(map[string]string{"T": "500ms"}), "T", time.Second))
	require.Equal(t, time.Second, Duration(env(map[string]string{"T": "soon"}), "T", time.Second))
	require.Equal(t, time.Second, Duration(env(map[string]string{"T": "-2s"}), "T", time.Second))
}
