package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "emiscal_backend/internals/tests"
)

const api = "/api/a"

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Count     *int                `json:"count"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      json.RawMessage     `json:"data"`
}

type httpTest struct {
	name      string
	method    string
	path      string
	body      string
	token     string
	wantCode  int
	wantField string
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

func run(t *testing.T, app *fiber.App, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := do(t, app, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantCode, resp.StatusCode, "%s %s: %+v", tt.method, tt.path, env)
			if tt.wantField != "" {
				assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
				assert.Contains(t, env.Errors, tt.wantField)
			}
		})
	}
}

type idOnly struct {
	ID string `json:"id"`
}

func TestAuthAndHealth(t *testing.T) {
	app, _ := testutil.NewApp(t)

	run(t, app, []httpTest{
		{name: "health is public", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "token required", method: http.MethodGet, path: api + "/categories", wantCode: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: api + "/categories", token: "abc.def.ghi", wantCode: http.StatusUnauthorized},
		{name: "admin role required", method: http.MethodGet, path: api + "/categories", token: testutil.Token(t, "student"), wantCode: http.StatusForbidden},
		{name: "owner allowed", method: http.MethodGet, path: api + "/categories", token: testutil.Token(t, "owner"), wantCode: http.StatusOK},
	})

	_, env := do(t, app, http.MethodGet, api+"/events", "", "")
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.ErrorCode)
}

func TestCategoriesAPI(t *testing.T) {
	app, _ := testutil.NewApp(t)
	tok := testutil.Token(t, "admin")

	resp, env := do(t, app, http.MethodPost, api+"/categories", tok, `{"name":"  Ujian  Akhir ","color":"ff0000"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	cat := decode[map[string]any](t, env)
	assert.Equal(t, "Ujian Akhir", cat["name"])
	assert.Equal(t, "#FF0000", cat["color"])
	id := cat["id"].(string)

	run(t, app, []httpTest{
		{name: "duplicate name", method: http.MethodPost, path: api + "/categories", token: tok, body: `{"name":"ujian akhir","color":"#00FF00"}`, wantCode: http.StatusConflict},
		{name: "missing name", method: http.MethodPost, path: api + "/categories", token: tok, body: `{"color":"#00FF00"}`, wantCode: http.StatusUnprocessableEntity, wantField: "name"},
		{name: "bad color", method: http.MethodPost, path: api + "/categories", token: tok, body: `{"name":"Libur","color":"red"}`, wantCode: http.StatusUnprocessableEntity, wantField: "color"},
		{name: "empty body", method: http.MethodPost, path: api + "/categories", token: tok, wantCode: http.StatusBadRequest},
		{name: "broken json", method: http.MethodPost, path: api + "/categories", token: tok, body: `{"name":`, wantCode: http.StatusBadRequest},
		{name: "bad id", method: http.MethodGet, path: api + "/categories/nope", token: tok, wantCode: http.StatusBadRequest},
		{name: "unknown id", method: http.MethodGet, path: api + "/categories/7c1e3f1a-3b8a-4a53-9d55-1f6a1a2b3c4d", token: tok, wantCode: http.StatusNotFound},
		{name: "patch color", method: http.MethodPatch, path: api + "/categories/" + id, token: tok, body: `{"color":"#0000ff"}`, wantCode: http.StatusOK},
	})

	_, env = do(t, app, http.MethodGet, api+"/categories", tok, "")
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
	list := decode[[]map[string]any](t, env)
	assert.Equal(t, "#0000FF", list[0]["color"])
}

func TestEventsAPI(t *testing.T) {
	app, store := testutil.NewApp(t)
	tok := testutil.Token(t, "admin")
	cat := testutil.CreateCategory(t, store, "Ujian", "#FF0000")
	catID := cat.EventCategoriesID.String()

	body := `{"title":"Orientation Day","category":"` + catID + `","type":"single","start_date":"2025-09-15","end_date":"2025-09-20","start_time":"09:00","end_time":"12:00"}`
	resp, env := do(t, app, http.MethodPost, api+"/events", tok, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%+v", env)
	created := decode[map[string]any](t, env)
	id := created["id"].(string)
	assert.Equal(t, "2025-09-15", created["end_date"], "single day: end == start")
	assert.Nil(t, created["calendar"])
	assert.Equal(t, "draft", created["status"])

	// create → get round trip
	_, env = do(t, app, http.MethodGet, api+"/events/"+id, tok, "")
	assert.Equal(t, created, decode[map[string]any](t, env))

	run(t, app, []httpTest{
		{name: "multi without end", method: http.MethodPost, path: api + "/events", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "end_date",
			body: `{"title":"PTS","category":"` + catID + `","type":"multi","start_date":"2025-09-22","start_time":"08:00","end_time":"12:00"}`},
		{name: "multi end before start", method: http.MethodPost, path: api + "/events", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "end_date",
			body: `{"title":"PTS","category":"` + catID + `","type":"multi","start_date":"2025-09-22","end_date":"2025-09-21","start_time":"08:00","end_time":"12:00"}`},
		{name: "unknown category", method: http.MethodPost, path: api + "/events", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "category",
			body: `{"title":"PTS","category":"7c1e3f1a-3b8a-4a53-9d55-1f6a1a2b3c4d","start_date":"2025-09-22","start_time":"08:00","end_time":"12:00"}`},
		{name: "missing fields", method: http.MethodPost, path: api + "/events", token: tok, body: `{"type":"single"}`, wantCode: http.StatusUnprocessableEntity, wantField: "title"},
		{name: "unlinked with calendar", method: http.MethodGet, path: api + "/events?unlinked=true&calendar=7c1e3f1a-3b8a-4a53-9d55-1f6a1a2b3c4d", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "unlinked"},
		{name: "bad category filter", method: http.MethodGet, path: api + "/events?category=nope", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "category"},
	})

	// status-only patch
	resp, env = do(t, app, http.MethodPatch, api+"/events/"+id, tok, `{"status":"published"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "%+v", env)
	patched := decode[map[string]any](t, env)
	assert.Equal(t, "published", patched["status"])
	for _, k := range []string{"title", "category", "type", "start_date", "end_date", "start_time", "end_time", "calendar"} {
		assert.Equal(t, created[k], patched[k], k)
	}

	_, env = do(t, app, http.MethodGet, api+"/events?category="+catID+"&start_date_from=2025-09-01&start_date_to=2025-09-30", tok, "")
	assert.Equal(t, 1, *env.Count)
	_, env = do(t, app, http.MethodGet, api+"/events?start_date_from=2025-10-01", tok, "")
	assert.Equal(t, 0, *env.Count)

	resp, env = do(t, app, http.MethodDelete, api+"/events/"+id, tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, decode[idOnly](t, env).ID)
	resp, _ = do(t, app, http.MethodGet, api+"/events/"+id, tok, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCalendarsAPI(t *testing.T) {
	app, store := testutil.NewApp(t)
	tok := testutil.Token(t, "admin")
	cat := testutil.CreateCategory(t, store, "Kegiatan", "#00AA00")
	catID := cat.EventCategoriesID.String()

	run(t, app, []httpTest{
		{name: "over a year", method: http.MethodPost, path: api + "/calendars", token: tok, body: `{"title":"Long","start_date":"2025-01-01","end_date":"2026-06-01"}`, wantCode: http.StatusUnprocessableEntity, wantField: "end_date"},
		{name: "same day", method: http.MethodPost, path: api + "/calendars", token: tok, body: `{"title":"One","start_date":"2025-01-01","end_date":"2025-01-01"}`, wantCode: http.StatusUnprocessableEntity, wantField: "end_date"},
		{name: "bad date", method: http.MethodPost, path: api + "/calendars", token: tok, body: `{"title":"X","start_date":"01/01/2025","end_date":"2025-02-01"}`, wantCode: http.StatusUnprocessableEntity, wantField: "start_date"},
	})

	// an unlinked event to link during build
	resp, env := do(t, app, http.MethodPost, api+"/events", tok,
		`{"title":"Midterm Exams","category":"`+catID+`","type":"multi","start_date":"2025-10-06","end_date":"2025-10-10","start_time":"08:00","end_time":"12:00","duration":240}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%+v", env)
	midterm := decode[idOnly](t, env).ID

	build := `{"title":"Fall 2025","start_date":"2025-08-01","end_date":"2025-12-20","items":[` +
		`{"event":{"title":"Orientation Day","category":"` + catID + `","start_date":"2025-09-15","start_time":"09:00","end_time":"12:00"}},` +
		`{"link":"` + midterm + `"}]}`
	resp, env = do(t, app, http.MethodPost, api+"/calendars/build", tok, build)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%+v", env)
	res := decode[struct {
		Calendar struct {
			ID string `json:"id"`
		} `json:"calendar"`
		Created []map[string]any `json:"created"`
		Linked  []map[string]any `json:"linked"`
	}](t, env)
	require.Len(t, res.Created, 1)
	require.Len(t, res.Linked, 1)
	assert.Equal(t, res.Calendar.ID, res.Created[0]["calendar"])
	assert.Equal(t, res.Calendar.ID, res.Linked[0]["calendar"])

	_, env = do(t, app, http.MethodGet, api+"/events?calendar="+res.Calendar.ID, tok, "")
	assert.Equal(t, 2, *env.Count)
	_, env = do(t, app, http.MethodGet, api+"/events?unlinked=true", tok, "")
	assert.Equal(t, 0, *env.Count, "linked event leaves the unlinked list")

	run(t, app, []httpTest{
		{name: "item needs event or link", method: http.MethodPost, path: api + "/calendars/build", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "items[0]",
			body: `{"title":"X","start_date":"2025-08-01","end_date":"2025-09-01","items":[{}]}`},
		{name: "item field errors are prefixed", method: http.MethodPost, path: api + "/calendars/build", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "items[0].event.title",
			body: `{"title":"X","start_date":"2025-08-01","end_date":"2025-09-01","items":[{"event":{"category":"` + catID + `","start_date":"2025-08-02","start_time":"08:00","end_time":"09:00"}}]}`},
		{name: "patch title", method: http.MethodPatch, path: api + "/calendars/" + res.Calendar.ID, token: tok, body: `{"title":"Fall Semester 2025"}`, wantCode: http.StatusOK},
		{name: "patch bad range", method: http.MethodPatch, path: api + "/calendars/" + res.Calendar.ID, token: tok, body: `{"end_date":"2025-07-01"}`, wantCode: http.StatusUnprocessableEntity, wantField: "end_date"},
	})

	req := httptest.NewRequest(http.MethodGet, api+"/calendars/"+res.Calendar.ID+"/ics", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	icsResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, icsResp.StatusCode)
	assert.True(t, strings.HasPrefix(icsResp.Header.Get("Content-Type"), "text/calendar"))
	raw, _ := io.ReadAll(icsResp.Body)
	assert.Contains(t, string(raw), "SUMMARY:Orientation Day")
	assert.Contains(t, string(raw), "X-WR-CALNAME:Fall Semester 2025")
}

func TestLayoutsAPI(t *testing.T) {
	app, store := testutil.NewApp(t)
	tok := testutil.Token(t, "admin")
	cat := testutil.CreateCategory(t, store, "Ujian", "#FF0000")
	catID := cat.EventCategoriesID.String()

	resp, env := do(t, app, http.MethodGet, api+"/layouts/active", tok, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, env = do(t, app, http.MethodPost, api+"/layouts", tok, `{"name":"Default","configuration":{"sidebar":{"categories":[]},"content":{"mode":"monthly","categories":[]}}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%+v", env)
	first := decode[map[string]any](t, env)
	assert.Equal(t, false, first["active"])

	resp, env = do(t, app, http.MethodPost, api+"/layouts", tok, `{"name":"Ujian","configuration":{"sidebar":{"categories":["`+catID+`"]},"content":{"mode":"category","categories":["`+catID+`"]}}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%+v", env)
	second := decode[map[string]any](t, env)

	_, env = do(t, app, http.MethodGet, api+"/layouts/active", tok, "")
	assert.Equal(t, first["id"], decode[idOnly](t, env).ID, "falls back to the first layout")

	resp, env = do(t, app, http.MethodPost, api+"/layouts/"+second["id"].(string)+"/activate", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "%+v", env)
	_, env = do(t, app, http.MethodGet, api+"/layouts/active", tok, "")
	assert.Equal(t, second["id"], decode[idOnly](t, env).ID)

	resp, env = do(t, app, http.MethodPut, api+"/layouts/"+second["id"].(string), tok, `{"name":"Ujian 2","configuration":{"sidebar":{"categories":[]},"content":{"mode":"monthly","categories":[]}}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "%+v", env)
	assert.Equal(t, true, decode[map[string]any](t, env)["active"], "saving keeps the active flag")

	run(t, app, []httpTest{
		{name: "three slots", method: http.MethodPost, path: api + "/layouts", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "categories",
			body: `{"name":"X","configuration":{"content":{"mode":"category","categories":["` + catID + `","7c1e3f1a-3b8a-4a53-9d55-1f6a1a2b3c4d","8c1e3f1a-3b8a-4a53-9d55-1f6a1a2b3c4d"]}}}`},
		{name: "unknown category", method: http.MethodPost, path: api + "/layouts", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "configuration",
			body: `{"name":"X","configuration":{"sidebar":{"categories":["7c1e3f1a-3b8a-4a53-9d55-1f6a1a2b3c4d"]},"content":{"mode":"monthly"}}}`},
		{name: "bad mode", method: http.MethodPost, path: api + "/layouts", token: tok, wantCode: http.StatusUnprocessableEntity, wantField: "mode",
			body: `{"name":"X","configuration":{"content":{"mode":"weekly"}}}`},
		{name: "activate unknown", method: http.MethodPost, path: api + "/layouts/7c1e3f1a-3b8a-4a53-9d55-1f6a1a2b3c4d/activate", token: tok, wantCode: http.StatusNotFound},
	})
}
