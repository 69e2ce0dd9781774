package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"pricewatch/db"
	"pricewatch/internal/shop"

	_ "modernc.org/sqlite"
)

func get(t *testing.T, h *Handler) (int, response) {
	t.Helper()

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHandle_DisabledDependencies(t *testing.T) {
	reg, err := shop.NewDefaultRegistry()
	require.NoError(t, err)

	code, resp := get(t, NewHandler(NewHandlerParams{Registry: reg, Conn: db.NewDisabledConn()}))

	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.OK)
	require.Equal(t, reg.Len(), resp.Shops)
	require.Equal(t, "disabled", resp.DB)
	require.Equal(t, "disabled", resp.Redis)
}

func TestHandle_SQLite(t *testing.T) {
	reg, err := shop.NewDefaultRegistry()
	require.NoError(t, err)

	sqlDB, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)

	code, resp := get(t, NewHandler(NewHandlerParams{Registry: reg, Conn: sqlDB}))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "up", resp.DB)

	require.NoError(t, sqlDB.Close())
	code, resp = get(t, NewHandler(NewHandlerParams{Registry: reg, Conn: sqlDB}))
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.False(t, resp.OK)
	require.Equal(t, "down", resp.DB)
}
