package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shopkeep/internal/domain"
	"shopkeep/internal/http/handlers"
	"shopkeep/internal/imagesearch"
	"shopkeep/internal/metrics"
	"shopkeep/internal/repos/memory"
	"shopkeep/internal/trends"
)

const templatesDir = "../../web/templates"

type testEnv struct {
	app     *fiber.App
	store   *memory.Store
	metrics *metrics.Metrics
}

type envOpts struct {
	summarizer trends.Summarizer
	images     *imagesearch.Lookup
	rateLimit  int
}

func newEnv(t *testing.T, opts envOpts) *testEnv {
	t.Helper()
	st := memory.NewStore()
	m := metrics.New()
	deps := handlers.NewDeps(handlers.Stores{
		Items:     st.Items(),
		Sales:     st.Sales(),
		Inventory: st.Inventory(),
	}, opts.summarizer, time.Second, opts.images, m)
	app := handlers.NewApp(handlers.AppConfig{TemplatesDir: templatesDir, RateLimit: opts.rateLimit}, deps)
	return &testEnv{app: app, store: st, metrics: m}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrfToken loads the home page and returns the token cookie it sets.
func (e *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	resp, _ := e.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	tok := extractCookie(resp, "csrf_")
	require.NotEmpty(t, tok, "csrf token missing")
	return tok
}

func (e *testEnv) postForm(t *testing.T, path string, vals url.Values) (*http.Response, string) {
	t.Helper()
	tok := e.csrfToken(t)
	vals.Set("csrf", tok)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	return e.do(t, req)
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

func (e *testEnv) seed(t *testing.T, name string, qty int) domain.Item {
	t.Helper()
	it, err := e.store.Items().Create(t.Context(), domain.NewItem{
		Name:              name,
		Description:       name + " for testing",
		PurchasePrice:     decimal.RequireFromString("4.00"),
		SellingPrice:      decimal.RequireFromString("10.00"),
		Quantity:          qty,
		LowStockThreshold: 2,
	})
	require.NoError(t, err)
	return it
}

func itemForm(name, qty string) url.Values {
	return url.Values{
		"name":              {name},
		"description":       {"A thing"},
		"purchasePrice":     {"4.00"},
		"sellingPrice":      {"10.00"},
		"quantity":          {qty},
		"lowStockThreshold": {"2"},
	}
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	Err    string                 `json:"err"`
	Fields map[string]interface{} `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
