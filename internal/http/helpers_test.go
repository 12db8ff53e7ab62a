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
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/text/currency"

	"offerbytes/internal/config"
	"offerbytes/internal/domain"
	"offerbytes/internal/http/handlers"
	"offerbytes/internal/metrics"
	"offerbytes/internal/repos"
	"offerbytes/internal/services"
)

const templateDir = "../../web/templates"

func newEngineApp() *fiber.App {
	return fiber.New(fiber.Config{Views: handlers.NewEngine(templateDir, currency.USD)})
}

// shop is a fully routed app on an in-memory database with a pinned clock.
type shop struct {
	app     *fiber.App
	db      *sqlx.DB
	users   *repos.UserRepo
	orders  *repos.OrderRepo
	metrics *metrics.Registry
	now     time.Time
	csrf    string
}

func newShop(t *testing.T) *shop {
	t.Helper()
	cfg := config.Config{
		DBDSN:       ":memory:",
		ExpiredText: "Custom price expired",
		LockWindow:  domain.TimeLimit,
		OfferTTL:    domain.CustomPriceExpiration,
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := &shop{db: db, users: repos.NewUserRepo(db), orders: repos.NewOrderRepo(db), metrics: metrics.NewRegistry(), now: time.Unix(1_700_000_000, 0)}
	authSvc := services.NewAuthService(s.users)
	deps := handlers.NewDeps(db, cfg, authSvc, s.metrics)
	deps.Cart.Now = func() time.Time { return s.now }

	app := newEngineApp()
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(handlers.AttachUser(authSvc))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/category/:id", deps.CategoryHandler.List)
	app.Get("/product/:id", deps.ProductHandler.Detail)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/order/:id", deps.OrderHandler.View)
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", deps.AuthHandler.Login)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/products", deps.AdminHandler.ProductsPage)
	admin.Post("/products/:id/offer", deps.AdminHandler.UpdateProductOffer)
	app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	s.app = app

	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	s.csrf = extractCookie(resp, "csrf_")
	if s.csrf == "" {
		t.Fatal("csrf token missing")
	}
	return s
}

// login binds sid to a seeded user.
func (s *shop) login(t *testing.T, sid, userID string) {
	t.Helper()
	if err := s.users.BindSession(sid, userID); err != nil {
		t.Fatalf("bind session: %v", err)
	}
}

func (s *shop) get(t *testing.T, path, sid string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (s *shop) post(t *testing.T, path, sid string, form url.Values) *http.Response {
	t.Helper()
	form.Set("csrf", s.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: s.csrf})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	Fields map[string]interface{} `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs temporarily replaces the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
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
