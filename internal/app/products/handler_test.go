package products

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pricewatch/db"
	"pricewatch/internal/pkg/crawlevents"
	"pricewatch/internal/producturl"
	"pricewatch/internal/shop"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	mux       *chi.Mux
	store     *fakeStore
	publisher *fakePublisher
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	reg, err := shop.NewDefaultRegistry()
	require.NoError(t, err)

	f := &apiFixture{store: newFakeStore(), publisher: &fakePublisher{}}
	svc := NewService(NewServiceParams{
		Resolver:  producturl.NewResolver(producturl.NewResolverParams{Registry: reg}),
		Store:     f.store,
		Publisher: f.publisher,
		Logger:    zap.NewNop().Sugar(),
	})

	f.mux = chi.NewRouter()
	NewResolveHandler(svc).RegisterRoute(f.mux)
	NewAddProductHandler(NewAddProductHandlerParams{Service: svc, Logger: zap.NewNop().Sugar()}).RegisterRoute(f.mux)
	NewShopsHandler(reg).RegisterRoute(f.mux)
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func TestResolveHandler(t *testing.T) {
	f := newAPIFixture(t)

	tests := map[string]struct {
		body string
		want string
	}{
		"resolved":    {body: `{"text":"see https://www.ozon.ru/product/42"}`, want: "resolved"},
		"empty text":  {body: `{"text":""}`, want: "no_url_found"},
		"unsupported": {body: `{"text":"https://example.com/p/1"}`, want: "unsupported_shop"},
		"listing":     {body: `{"text":"https://www.ozon.ru/category/x-1"}`, want: "not_a_single_product_page"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/v1/resolve", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp struct {
				Kind        string `json:"kind"`
				Fingerprint string `json:"fingerprint"`
				Message     string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tt.want, resp.Kind)
			require.NotEmpty(t, resp.Message)
			if tt.want == "resolved" {
				require.Equal(t, ozonFingerprint, resp.Fingerprint)
			}
		})
	}

	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/v1/resolve", `{`).Code)
}

func TestAddProductHandler(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/products", `{"user_id":"u1","text":"https://www.ozon.ru/product/42"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var res AddResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, StatusQueued, res.Status)
	require.Equal(t, producturl.KindResolved, res.Outcome.Kind)
	require.Len(t, f.publisher.sent, 1)

	w = f.do(t, http.MethodPost, "/v1/products", `{"user_id":"u1","text":"https://www.ozon.ru/product/42"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"already_queued"`)

	w = f.do(t, http.MethodPost, "/v1/products", `{"user_id":"u1","text":"no link"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), Message(producturl.KindNoURLFound))

	w = f.do(t, http.MethodPost, "/v1/products", `{"text":"https://www.ozon.ru/product/42"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddProductHandler_ErrorStatus(t *testing.T) {
	f := newAPIFixture(t)

	f.store.findErr = db.ErrDatabaseDisabled
	w := f.do(t, http.MethodPost, "/v1/products", `{"user_id":"u1","text":"https://www.ozon.ru/product/42"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	f.store.findErr = nil
	f.publisher.err = crawlevents.ErrPublisherDisabled
	w = f.do(t, http.MethodPost, "/v1/products", `{"user_id":"u1","text":"https://www.ozon.ru/product/42"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	f.publisher.err = http.ErrHandlerTimeout
	w = f.do(t, http.MethodPost, "/v1/products", `{"user_id":"u1","text":"https://www.ozon.ru/product/42"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestShopsHandler(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/v1/shops?q=iphone+15", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Shops []shopView `json:"shops"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Shops)

	var ozon *shopView
	for i := range resp.Shops {
		if resp.Shops[i].Name == "ozon" {
			ozon = &resp.Shops[i]
		}
	}
	require.NotNil(t, ozon)
	require.Equal(t, "www.ozon.ru", ozon.CanonicalDomain)
	require.Contains(t, ozon.Domains, "m.ozon.ru")
	require.Equal(t, "https://www.ozon.ru/search/?text=iphone+15", ozon.SearchURL)

	w = f.do(t, http.MethodGet, "/v1/shops", "")
	require.NotContains(t, w.Body.String(), "search_url")
}
