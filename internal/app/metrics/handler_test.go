package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricewatch/internal/pkg/metrics"
	"pricewatch/internal/producturl"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesCounters(t *testing.T) {
	rec := metrics.NewRecorder()
	rec.ObserveOutcome(producturl.Outcome{Kind: producturl.KindResolved, Shop: "ozon"})

	r := chi.NewRouter()
	NewHandler(rec).RegisterRoute(r)

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `pricewatch_resolve_outcomes_total{kind="resolved",shop="ozon"} 1`)
}
