package logs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"pricewatch/config"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	require.Equal(t, zapcore.DebugLevel, levelFromString(" DEBUG "))
	require.Equal(t, zapcore.WarnLevel, levelFromString("warning"))
	require.Equal(t, zapcore.ErrorLevel, levelFromString("error"))
	require.Equal(t, zapcore.InfoLevel, levelFromString(""))
	require.Equal(t, zapcore.InfoLevel, levelFromString("verbose"))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	l, err := NewLogger(&config.Config{AppName: "pricewatch", ENV: config.Production, LogLevel: "warn"})
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNewCLILogger(t *testing.T) {
	t.Parallel()

	quiet, err := NewCLILogger(false)
	require.NoError(t, err)
	require.False(t, quiet.Desugar().Core().Enabled(zapcore.ErrorLevel))

	loud, err := NewCLILogger(true)
	require.NoError(t, err)
	require.True(t, loud.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestLevelFromString_FatalLevelsClampToError(t *testing.T) {
	t.Parallel()

	require.Equal(t, zapcore.ErrorLevel, levelFromString("fatal"))
}

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pricewatch.log")
	l, err := NewLogger(&config.Config{AppName: "pricewatch", ENV: config.Production, LogFile: path, LogMaxSizeMB: 1})
	require.NoError(t, err)

	l.Info("product_add_enqueued")
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"msg":"product_add_enqueued"`)
	require.Contains(t, string(raw), `"app":"pricewatch"`)
}
