package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetrack/internal/analytics"
	"pricetrack/internal/catalog"
	"pricetrack/internal/metrics"
	"pricetrack/internal/storage"
	"pricetrack/internal/store"
)

var fixedNow = time.Date(2025, time.January, 25, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	m := metrics.New()
	s := store.New(storage.NewMemory(),
		store.WithMetrics(m),
		store.WithClock(func() time.Time { return fixedNow }),
		store.WithIDGenerator(store.Sequential()),
	)
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	h := NewHandler(s, m, func() time.Time { return fixedNow }, zerolog.Nop())

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv, s
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	do(t, srv, http.MethodGet, "/api/suppliers", "")
	resp = do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "pricetrack_catalog_records")
}

func TestSupplierLifecycle(t *testing.T) {
	srv, s := newTestServer(t)

	var suppliers []catalog.Supplier
	decode(t, do(t, srv, http.MethodGet, "/api/suppliers", ""), &suppliers)
	assert.Len(t, suppliers, 4)

	resp := do(t, srv, http.MethodPost, "/api/suppliers", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/suppliers", `{"name":"Fresh Farms","email":"ops@fresh.example"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created catalog.Supplier
	decode(t, resp, &created)
	assert.Equal(t, "s5", created.ID)

	resp = do(t, srv, http.MethodPatch, "/api/suppliers/s5", `{"notes":"weekly"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/api/suppliers/s1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, srv, http.MethodGet, "/api/suppliers/s1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	for _, p := range s.Products() {
		_, priced := p.PriceFor("s1")
		assert.False(t, priced, p.ID)
	}
}

func TestProductsQueryAndCreate(t *testing.T) {
	srv, _ := newTestServer(t)

	var products []catalog.Product
	decode(t, do(t, srv, http.MethodGet, "/api/products?category=grocery&sort=price-low", ""), &products)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Equal(t, "grocery", p.Category)
	}

	resp := do(t, srv, http.MethodGet, "/api/products?sort=cheapest", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/products", `{"name":"Flour","category":"grocery","prices":[{"supplierId":"s9","price":3}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/products", `{"name":"Flour","category":"grocery","prices":[{"supplierId":"s1","price":3.25}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created catalog.Product
	decode(t, resp, &created)
	assert.Equal(t, "p7", created.ID)
	assert.Len(t, created.PriceHistory, 1)

	resp = do(t, srv, http.MethodPost, "/api/products", `{"name":"Salt","category":"grocery","prices":[{"supplierId":"s1","price":1}],"priceHistory":[{"supplierId":"ghost","price":-5,"date":"2025-01-01"}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/products/p99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/products", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetPrice(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPut, "/api/products/p1/prices/s1", `{"price":40}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out setPriceResponse
	decode(t, resp, &out)
	require.NotEmpty(t, out.Alerts)
	assert.Equal(t, catalog.AlertPriceDrop, out.Alerts[0].Type)

	resp = do(t, srv, http.MethodPut, "/api/products/p1/prices/s1", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPut, "/api/products/p1/prices/s9", `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPut, "/api/products/p1/prices/s1", `{"price":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var history []catalog.PriceObservation
	decode(t, do(t, srv, http.MethodGet, "/api/products/p1/history/s1", ""), &history)
	require.Len(t, history, 3)
	assert.Equal(t, "2025-01-25", history[2].Date.String())

	var comparison []analytics.ComparisonEntry
	decode(t, do(t, srv, http.MethodGet, "/api/products/p1/comparison", ""), &comparison)
	require.Len(t, comparison, 2)
	assert.Equal(t, "s3", comparison[0].SupplierID)
	assert.True(t, comparison[0].IsBestPrice)
}

func TestAlertsEndpoints(t *testing.T) {
	srv, s := newTestServer(t)

	var unread []catalog.Alert
	decode(t, do(t, srv, http.MethodGet, "/api/alerts?unread=true", ""), &unread)
	for _, a := range unread {
		assert.False(t, a.Read)
	}
	require.NotEmpty(t, unread)

	resp := do(t, srv, http.MethodPost, "/api/alerts/"+unread[0].ID+"/read", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, len(unread)-1, s.UnreadAlertCount())

	resp = do(t, srv, http.MethodDelete, "/api/alerts/a99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var stats analytics.ChangeStats
	decode(t, do(t, srv, http.MethodGet, "/api/analytics/stats?timeframe=month", ""), &stats)
	assert.Equal(t, 5, stats.PriceDrops)
	assert.Equal(t, 4, stats.PriceIncreases)

	resp := do(t, srv, http.MethodGet, "/api/analytics/stats?timeframe=year", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var opps []analytics.Opportunity
	decode(t, do(t, srv, http.MethodGet, "/api/analytics/savings", ""), &opps)
	require.NotEmpty(t, opps)
	assert.Equal(t, "p6", opps[0].ProductID)

	var trends analytics.TrendSeries
	decode(t, do(t, srv, http.MethodGet, "/api/analytics/trends?timeframe=week", ""), &trends)
	assert.Len(t, trends.Datasets, 3)

	var recent []analytics.RecentUpdate
	decode(t, do(t, srv, http.MethodGet, "/api/analytics/recent?limit=3", ""), &recent)
	assert.Len(t, recent, 3)

	resp = do(t, srv, http.MethodGet, "/api/analytics/recent?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportCSV(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/export.csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	assert.True(t, strings.HasPrefix(readBody(t, resp), "Product ID,Product Name"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestNewHandlerClock(t *testing.T) {
	s := store.New(storage.NewMemory())
	assert.NotNil(t, NewHandler(s, nil, nil, zerolog.Nop()).now)

	clock := func() time.Time { return fixedNow }
	h := NewHandler(s, nil, clock, zerolog.Nop())
	assert.Equal(t, fixedNow, h.now())
}
