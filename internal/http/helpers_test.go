package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/http/server"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

const testSecret = "test-secret"

type testApp struct {
	*fiber.App
	db   *sqlx.DB
	cfg  config.Config
	deps *handlers.Deps
}

func testConfig() config.Config {
	return config.Config{
		DBDriver:       config.DriverSQLite,
		DBDSN:          ":memory:",
		JWTSecret:      testSecret,
		TokenTTL:       time.Hour,
		BcryptCost:     bcrypt.MinCost,
		BodyLimit:      1 << 20,
		LoginRateLimit: 100,
	}
}

func newTestApp(t *testing.T, tweak ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := testConfig()
	for _, f := range tweak {
		f(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(repos.Stores(db), cfg)
	app := server.New(cfg, deps, metrics.NewServerMetrics(prometheus.NewRegistry()))
	return &testApp{App: app, db: db, cfg: cfg, deps: deps}
}

// call sends a JSON request and returns the response with its body read.
func (a *testApp) call(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

// signup registers a customer and returns its id and a login token.
func (a *testApp) signup(t *testing.T, name, email string) (string, string) {
	t.Helper()
	resp, body := a.call(t, "POST", "/api/v1/customers", map[string]any{
		"name": name, "email": email, "password": "Passw0rd!",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := decode[map[string]any](t, body)["_id"].(string)

	resp, body = a.call(t, "POST", "/api/v1/customers/login", map[string]any{
		"email": email, "password": "Passw0rd!",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	return id, decode[map[string]string](t, body)["token"]
}

func (a *testApp) createProduct(t *testing.T, token string, name string, price float64, stock int) map[string]any {
	t.Helper()
	resp, body := a.call(t, "POST", "/api/v1/products", map[string]any{
		"name": name, "description": "test item", "category": "Consoles", "price": price, "stock": stock,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode[map[string]any](t, body)
}
