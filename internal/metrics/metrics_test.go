package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, h http.Handler) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	b, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(b)
}

func TestCounters(t *testing.T) {
	m := New()
	m.SaleRecorded(3)
	m.SaleRecorded(2)
	m.SaleDeclined()
	m.Trends("ok")
	m.ImageLookup("placeholder")

	code, body := scrape(t, m.Handler())
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "shopkeep_sales_total 2")
	require.Contains(t, body, "shopkeep_units_sold_total 5")
	require.Contains(t, body, "shopkeep_sales_declined_total 1")
	require.Contains(t, body, `shopkeep_trends_requests_total{outcome="ok"} 1`)
	require.Contains(t, body, `shopkeep_image_lookups_total{source="placeholder"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.SaleRecorded(1)
	m.SaleDeclined()
	m.Trends("failed")
	m.ImageLookup("cache")

	code, _ := scrape(t, m.Handler())
	require.Equal(t, http.StatusServiceUnavailable, code)
}
