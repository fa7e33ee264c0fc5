// Package testutil wires the HTTP app to an in-memory store for tests and
// lets the dashboard client talk to it without a network listener.
package testutil

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"emiscal_backend/internals/configs"
	"emiscal_backend/internals/dashboard/api"
	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/repository/memory"
	routes "emiscal_backend/internals/route"
)

const (
	JWTSecret = "test-secret"
	BaseURL   = "http://emiscal.test/api/a"
)

// Config is a server config for tests: memory store, no rate limit.
func Config() configs.Config {
	return configs.Config{
		Port:           "0",
		JWTSecret:      JWTSecret,
		DBDriver:       "memory",
		CORSOrigins:    []string{"http://localhost:5173"},
		TimeZone:       "Asia/Jakarta",
		RequestTimeout: 5 * time.Second,
	}
}

// NewApp returns the full app over a fresh memory store.
func NewApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.New()
	return routes.NewApp(Config(), store), store
}

// Token mints an HS256 token carrying roles as roles_global.
func Token(t *testing.T, roles ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":           uuid.NewString(),
		"roles_global": roles,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	require.NoError(t, err, "Token()")
	return tok
}

// Call is one request seen by a Transport.
type Call struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// Transport hands requests to app.Test and records them.
type Transport struct {
	App *fiber.App

	mu    sync.Mutex
	calls []Call
	// Fail, when set, answers matching requests with its response instead.
	Fail func(r *http.Request) *http.Response
}

func (tr *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	c := Call{Method: req.Method, Path: req.URL.Path, Query: req.URL.RawQuery}
	if req.GetBody != nil {
		if rc, err := req.GetBody(); err == nil {
			c.Body, _ = io.ReadAll(rc)
			_ = rc.Close()
		}
	}
	tr.mu.Lock()
	tr.calls = append(tr.calls, c)
	fail := tr.Fail
	tr.mu.Unlock()

	if fail != nil {
		if resp := fail(req); resp != nil {
			return resp, nil
		}
	}
	return tr.App.Test(req, -1)
}

func (tr *Transport) Calls() []Call {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]Call(nil), tr.calls...)
}

func (tr *Transport) Reset() {
	tr.mu.Lock()
	tr.calls = nil
	tr.mu.Unlock()
}

// Client is an admin api.Client wired to app through a recording Transport.
func Client(t *testing.T, app *fiber.App) (*api.Client, *Transport) {
	t.Helper()
	tr := &Transport{App: app}
	c, err := api.New(api.Config{
		BaseURL:    BaseURL,
		Tokens:     api.StaticToken(Token(t, "admin")),
		HTTPClient: &http.Client{Transport: tr},
	})
	require.NoError(t, err, "api.New()")
	return c, tr
}

func CreateCategory(t *testing.T, store *memory.Store, name, color string) model.EventCategory {
	t.Helper()
	m := model.EventCategory{EventCategoriesName: name, EventCategoriesColor: color}
	require.NoError(t, store.Categories().Create(context.Background(), &m), "CreateCategory()")
	return m
}
