package handlers_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
)

type logEntry struct {
	Level      string         `json:"level"`
	Action     string         `json:"action"`
	Error      string         `json:"error"`
	CustomerID string         `json:"customer_id"`
	Fields     map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.buf.Write(p)
}

// captureLogs collects the JSON events written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	old := applog.SetOutput(w)
	defer applog.SetOutput(old)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func find(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}

func TestErrorHandlerHidesInternals(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return errors.New("db timeout: secret trace")
	})
	app.Get("/fiber-err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "dial tcp 10.0.0.5: secret")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("secret panic")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	for _, path := range []string{"/err", "/fiber-err", "/panic"} {
		var body []byte
		entries := captureLogs(t, func() {
			resp, err := app.Test(httptest.NewRequest("GET", path, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			body, _ = io.ReadAll(resp.Body)
		})
		assert.JSONEq(t, `{"message":"Internal Server Error"}`, string(body), path)
		assert.NotContains(t, string(body), "secret")

		e := find(entries, "server.error")
		require.NotNil(t, e, "%s: server.error not logged", path)
		assert.Contains(t, e.Error, "secret")
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"short and stout"}`, string(body))
}

func TestUnknownRouteIs404(t *testing.T) {
	app := newTestApp(t)
	resp, _ := app.call(t, "GET", "/api/v1/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := app.call(t, "GET", "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestMalformedBody(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest("POST", "/api/v1/customers", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// app.Test cannot observe this reply: fasthttp rejects the request while
// reading it, so the check runs against a real socket.
func TestBodyLimit(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.BodyLimit = 1 << 10 })
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	// the declared length alone exceeds the limit; no body is sent
	_, err = fmt.Fprintf(conn, "POST /api/v1/customers HTTP/1.1\r\n"+
		"Host: storefront.test\r\n"+
		"Content-Type: application/json\r\n"+
		"Content-Length: %d\r\n\r\n", 2<<20)
	require.NoError(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, decode[map[string]string](t, body)["message"])
}

func TestAuditEvents(t *testing.T) {
	app := newTestApp(t)
	var id, token string
	entries := captureLogs(t, func() {
		id, token = app.signup(t, "Alice", "alice@example.com")
		app.call(t, "POST", "/api/v1/customers/login", map[string]any{"email": "alice@example.com", "password": "bad"}, "")
		app.call(t, "POST", "/api/v1/orders", map[string]any{"products": lineItems([3]any{"x", 2, 1})}, token)
		app.call(t, "POST", "/api/v1/orders", map[string]any{"products": lineItems([3]any{"x", 2, 1})}, "")
	})

	require.NotNil(t, find(entries, "customer.register"))
	success := find(entries, "auth.login.success")
	require.NotNil(t, success)
	assert.Equal(t, "alice@example.com", success.Fields["email"])

	fail := find(entries, "auth.login.fail")
	require.NotNil(t, fail)
	assert.Equal(t, "warning", fail.Level)
	assert.Equal(t, "bad_password", fail.Fields["reason"])

	placed := find(entries, "order.place")
	require.NotNil(t, placed)
	assert.Equal(t, id, placed.CustomerID)

	require.NotNil(t, find(entries, "auth.token.missing"))
}
