// Package api is the dashboard's typed client for the calendar REST API.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

type Config struct {
	// BaseURL includes the API prefix, e.g. "https://emis.example/api/a".
	BaseURL string
	Tokens  TokenSource
	// HTTPClient defaults to a client with a 15s timeout.
	HTTPClient *http.Client
}

// Client talks to the calendar API. Event listings are cached per filter and
// the whole cache is dropped after any mutating call.
type Client struct {
	base   string
	tokens TokenSource
	http   *http.Client

	mu     sync.Mutex
	cache  map[string][]Event
	gen    uint64
	flight singleflight.Group
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, errors.Wrap(err, "parsing base url")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		base:   base,
		tokens: cfg.Tokens,
		http:   hc,
		cache:  make(map[string][]Event),
	}, nil
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type errorBody struct {
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
}

func (c *Client) send(ctx context.Context, method, path string, q url.Values, body any) ([]byte, http.Header, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rdr io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		if err != nil {
			return nil, nil, errors.Wrap(err, "encoding request body")
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, nil, errors.Wrap(err, "getting token")
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading %s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb errorBody
		if sonic.Unmarshal(raw, &eb) == nil {
			if eb.Message != "" {
				ae.Message = eb.Message
			}
			ae.Code, ae.Fields = eb.ErrorCode, eb.Errors
		}
		return nil, nil, ae
	}
	return raw, resp.Header, nil
}

// call sends the request and decodes the envelope's data into T.
func call[T any](ctx context.Context, c *Client, method, path string, q url.Values, body any) (T, error) {
	var zero T
	raw, _, err := c.send(ctx, method, path, q, body)
	if err != nil {
		return zero, err
	}
	var env envelope[T]
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return zero, errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return env.Data, nil
}

// mutate is call plus cache invalidation, whatever the outcome: a failed
// call may still have changed server state.
func mutate[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	defer c.Invalidate()
	return call[T](ctx, c, method, path, nil, body)
}

// Invalidate drops every cached event listing.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string][]Event)
	c.gen++
	c.mu.Unlock()
}

func idPath(prefix string, id uuid.UUID) string { return prefix + "/" + id.String() }

/* ===================== Categories ===================== */

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	return call[[]Category](ctx, c, http.MethodGet, "/categories", nil, nil)
}

/* ===================== Events ===================== */

// ListEvents returns the full listing for f. Identical concurrent calls share
// one request and later calls are served from cache until a mutation.
func (c *Client) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	q := f.query()
	key := q.Encode()

	c.mu.Lock()
	if rows, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cloneEvents(rows), nil
	}
	gen := c.gen
	c.mu.Unlock()

	// Keyed by generation so nobody joins a fetch that started before a
	// mutation. The shared fetch outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(fmt.Sprintf("%d|%s", gen, key), func() (any, error) {
		rows, err := call[[]Event](shared, c, http.MethodGet, "/events", q, nil)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.cache[key] = rows
		}
		c.mu.Unlock()
		return rows, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneEvents(res.Val.([]Event)), nil
	}
}

func cloneEvents(in []Event) []Event {
	out := make([]Event, len(in))
	copy(out, in)
	return out
}

func (c *Client) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	return call[Event](ctx, c, http.MethodGet, idPath("/events", id), nil, nil)
}

func (c *Client) CreateEvent(ctx context.Context, in EventInput) (Event, error) {
	return mutate[Event](ctx, c, http.MethodPost, "/events", in)
}

func (c *Client) UpdateEvent(ctx context.Context, id uuid.UUID, p EventPatch) (Event, error) {
	return mutate[Event](ctx, c, http.MethodPatch, idPath("/events", id), p)
}

// LinkEvent sets the event's calendar; nil unlinks it.
func (c *Client) LinkEvent(ctx context.Context, id uuid.UUID, calendarID *uuid.UUID) (Event, error) {
	return c.UpdateEvent(ctx, id, LinkPatch(calendarID))
}

func (c *Client) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	_, err := mutate[any](ctx, c, http.MethodDelete, idPath("/events", id), nil)
	return err
}

/* ===================== Calendars ===================== */

func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	return call[[]Calendar](ctx, c, http.MethodGet, "/calendars", nil, nil)
}

func (c *Client) GetCalendar(ctx context.Context, id uuid.UUID) (Calendar, error) {
	return call[Calendar](ctx, c, http.MethodGet, idPath("/calendars", id), nil, nil)
}

func (c *Client) CreateCalendar(ctx context.Context, in CalendarInput) (Calendar, error) {
	return mutate[Calendar](ctx, c, http.MethodPost, "/calendars", in)
}

func (c *Client) UpdateCalendar(ctx context.Context, id uuid.UUID, in CalendarInput) (Calendar, error) {
	return mutate[Calendar](ctx, c, http.MethodPatch, idPath("/calendars", id), in)
}

// BuildCalendar commits the calendar and all items in one server transaction.
func (c *Client) BuildCalendar(ctx context.Context, req BuildRequest) (BuildResult, error) {
	return mutate[BuildResult](ctx, c, http.MethodPost, "/calendars/build", req)
}

// CalendarICS downloads the iCalendar export.
func (c *Client) CalendarICS(ctx context.Context, id uuid.UUID) ([]byte, error) {
	raw, _, err := c.send(ctx, http.MethodGet, idPath("/calendars", id)+"/ics", nil, nil)
	return raw, err
}

/* ===================== Layouts ===================== */

func (c *Client) ListLayouts(ctx context.Context) ([]Layout, error) {
	return call[[]Layout](ctx, c, http.MethodGet, "/layouts", nil, nil)
}

func (c *Client) GetLayout(ctx context.Context, id uuid.UUID) (Layout, error) {
	return call[Layout](ctx, c, http.MethodGet, idPath("/layouts", id), nil, nil)
}

// ActiveLayout returns the active layout, or the first one when none is active.
func (c *Client) ActiveLayout(ctx context.Context) (Layout, error) {
	return call[Layout](ctx, c, http.MethodGet, "/layouts/active", nil, nil)
}

func (c *Client) CreateLayout(ctx context.Context, in LayoutInput) (Layout, error) {
	return mutate[Layout](ctx, c, http.MethodPost, "/layouts", in)
}

func (c *Client) UpdateLayout(ctx context.Context, id uuid.UUID, in LayoutInput) (Layout, error) {
	return mutate[Layout](ctx, c, http.MethodPut, idPath("/layouts", id), in)
}

func (c *Client) ActivateLayout(ctx context.Context, id uuid.UUID) (Layout, error) {
	return mutate[Layout](ctx, c, http.MethodPost, idPath("/layouts", id)+"/activate", nil)
}
