package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/db"
	"github.com/diewo77/go-backoffice/internal/metrics"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/query"
	"github.com/diewo77/go-backoffice/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	srv *httptest.Server
	db  *gorm.DB

	mu   sync.Mutex
	seen []string
}

func (ta *testApp) keys() []string {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	return append([]string(nil), ta.seen...)
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:         db.DriverSQLite,
		SQLitePath:     "file:" + t.Name() + "?mode=memory&cache=shared",
		LogLevel:       logger.Silent,
		ConnectRetries: 1,
	}}
	conn, err := db.Open(cfg.Database, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn, cfg, zap.NewNop()))

	ta := &testApp{db: conn}
	bus := views.NewBus()
	bus.Subscribe(func(key string) {
		ta.mu.Lock()
		ta.seen = append(ta.seen, key)
		ta.mu.Unlock()
	})
	app := NewApp(conn, Options{Publisher: bus, Metrics: metrics.New("test")})
	ta.srv = httptest.NewServer(app)
	t.Cleanup(func() {
		ta.srv.Close()
		_ = db.Close(conn)
	})
	return ta
}

// noRedirect keeps 303 responses visible to the test.
var noRedirect = &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}}

func (ta *testApp) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := noRedirect.PostForm(ta.srv.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ta *testApp) getJSON(t *testing.T, path string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(ta.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func (ta *testApp) totalPages(t *testing.T, entity string) int {
	t.Helper()
	var p struct {
		TotalPages int `json:"totalPages"`
	}
	ta.getJSON(t, "/api/"+entity+"/pages", &p)
	return p.TotalPages
}

func TestHealthEndpoints(t *testing.T) {
	ta := newTestApp(t)
	for _, path := range []string{"/health", "/healthz"} {
		resp := ta.getJSON(t, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	}

	resp, err := http.Get(ta.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="GET /health",service="test",status="200"} 1`)
}

func TestCreateCustomerAppearsInList(t *testing.T) {
	ta := newTestApp(t)
	for _, name := range []string{"Anh", "Minh", "Tuan"} {
		require.NoError(t, ta.db.Create(&models.Customer{Name: name}).Error)
	}
	before := ta.totalPages(t, "customers")

	resp := ta.postForm(t, "/api/customers", url.Values{"name": {"Linh"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/customers", resp.Header.Get("Location"))
	assert.Equal(t, []string{views.Dashboard, views.Customers, views.Invoices, views.InvoiceCreate}, ta.keys())

	var rows []query.CustomerRow
	ta.getJSON(t, "/api/customers?page=1", &rows)
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Anh", "Linh", "Minh", "Tuan"}, names)

	after := ta.totalPages(t, "customers")
	assert.LessOrEqual(t, after-before, 1)
}

func (ta *testApp) refs(t *testing.T) (customerID, productID string) {
	t.Helper()
	c := models.Customer{Name: "Linh"}
	p := models.Product{Code: "BOX", Name: "Widget", Quantity: 3}
	require.NoError(t, ta.db.Create(&c).Error)
	require.NoError(t, ta.db.Create(&p).Error)
	return c.ID, p.ID
}

func TestCreateInvoiceStoresCents(t *testing.T) {
	ta := newTestApp(t)
	c, p := ta.refs(t)

	resp := ta.postForm(t, "/api/invoices", url.Values{
		"customerId": {c}, "productId": {p}, "quantity": {"10"},
		"amount": {"15.79"}, "status": {"pending"}, "date": {"2022-12-06"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/invoices", resp.Header.Get("Location"))

	var stored models.Invoice
	require.NoError(t, ta.db.First(&stored).Error)
	assert.Equal(t, int64(1579), stored.Amount)

	var rows []query.InvoiceRow
	ta.getJSON(t, "/api/invoices", &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "$15.79", rows[0].FormattedAmount)
	assert.Equal(t, "$157.90", rows[0].FormattedTotal)
	assert.Equal(t, "Dec 6, 2022", rows[0].FormattedDate)

	var sum query.Summary
	ta.getJSON(t, "/api/summary", &sum)
	assert.Equal(t, "$157.90", sum.TotalPending)
}

func TestZeroAmountInvoiceRejected(t *testing.T) {
	ta := newTestApp(t)
	c, p := ta.refs(t)

	resp := ta.postForm(t, "/api/invoices", url.Values{
		"customerId": {c}, "productId": {p}, "quantity": {"1"},
		"amount": {"0"}, "status": {"paid"}, "date": {"2023-01-15"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))

	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Errors, "amount")

	var n int64
	ta.db.Model(&models.Invoice{}).Count(&n)
	assert.Zero(t, n)
	assert.Empty(t, ta.keys())
}

func TestUpdateUnknownInvoice(t *testing.T) {
	ta := newTestApp(t)
	c, p := ta.refs(t)

	resp := ta.postForm(t, "/api/invoices/no-such-id", url.Values{
		"customerId": {c}, "productId": {p}, "quantity": {"1"},
		"amount": {"5"}, "status": {"paid"}, "date": {"2023-01-15"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, ta.keys())
}

func TestProductBatchIsAtomic(t *testing.T) {
	ta := newTestApp(t)
	body := `{"code":"C-1","products":[
		{"name":"A","quantity":"1"},{"name":"B","quantity":"2"},
		{"name":"C","quantity":"3"},{"name":"D","quantity":"abc"}]}`
	resp, err := http.Post(ta.srv.URL+"/api/products", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var out struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Errors, "products[3][quantity]")
	assert.Zero(t, ta.totalPages(t, "products"))
}
