// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/ManuGH/filmshelf/internal/config"
	"github.com/ManuGH/filmshelf/internal/film"
	"github.com/ManuGH/filmshelf/internal/store"
	"github.com/ManuGH/filmshelf/internal/views"
)

const videoA = `{"id":1,"name":"A","author":"B","description":"C","genre":"D"}`

func testConfig() config.AppConfig {
	cfg := config.Default()
	cfg.API.RateLimit.Enabled = false
	return cfg
}

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, st.Load(context.Background()))

	pages, err := views.New()
	require.NoError(t, err)

	srv, err := New(testConfig(), st, pages)
	require.NoError(t, err)
	return srv, st
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresDependencies(t *testing.T) {
	pages, err := views.New()
	require.NoError(t, err)

	_, err = New(testConfig(), nil, pages)
	assert.ErrorIs(t, err, ErrMissingCatalog)

	_, err = New(testConfig(), store.New("unused.json"), nil)
	assert.ErrorIs(t, err, ErrMissingPages)
}

func TestScenario_CreateReadUpdateDelete(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/films/", videoA)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, videoA, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/films/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>A</h1>")

	rec = do(t, h, http.MethodPut, "/films/1",
		`{"id":1,"name":"A2","author":"B2","description":"C2","genre":"D2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "updated").Bool())
	assert.Equal(t, "A2", gjson.Get(body, "video.name").String())

	rec = do(t, h, http.MethodGet, "/films/1", "")
	assert.Contains(t, rec.Body.String(), "<h1>A2</h1>")

	rec = do(t, h, http.MethodDelete, "/films/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.True(t, gjson.Get(body, "deleted").Bool())
	assert.Equal(t, "A2", gjson.Get(body, "video.name").String())

	rec = do(t, h, http.MethodGet, "/films/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Video not found")

	assert.Equal(t, 0, st.Len())
	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCreate_BothPathSpellings(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/films/", videoA).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/films", videoA).Code)

	// Duplicate ids are accepted; lookups resolve to the first.
	assert.Equal(t, 2, st.Len())
	v, ok := st.Find(1)
	require.True(t, ok)
	assert.Equal(t, "A", v.Name)
}

func TestCreate_PersistsNonASCIILiterally(t *testing.T) {
	srv, st := newTestServer(t)

	body := `{"id":7,"name":"Сталкер","author":"Тарковский","description":"<зона>","genre":"драма"}`
	rec := do(t, srv.Handler(), http.MethodPost, "/films/", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Сталкер")
	assert.Contains(t, rec.Body.String(), "<зона>")

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Сталкер"`)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLoc string
		wantTyp string
	}{
		{
			name:    "missing field",
			body:    `{"id":1,"name":"A","author":"B","description":"C"}`,
			wantLoc: `["body","genre"]`,
			wantTyp: film.ErrTypeMissing,
		},
		{
			name:    "string id",
			body:    `{"id":"one","name":"A","author":"B","description":"C","genre":"D"}`,
			wantLoc: `["body","id"]`,
			wantTyp: film.ErrTypeIntParsing,
		},
		{
			name:    "id past int64",
			body:    `{"id":9223372036854775808,"name":"A","author":"B","description":"C","genre":"D"}`,
			wantLoc: `["body","id"]`,
			wantTyp: film.ErrTypeInt,
		},
		{
			name:    "numeric name",
			body:    `{"id":1,"name":5,"author":"B","description":"C","genre":"D"}`,
			wantLoc: `["body","name"]`,
			wantTyp: film.ErrTypeString,
		},
		{
			name:    "not json",
			body:    `{"id":1,`,
			wantLoc: `["body"]`,
			wantTyp: film.ErrTypeJSONInvalid,
		},
		{
			name:    "list instead of object",
			body:    `[1,2]`,
			wantLoc: `["body"]`,
			wantTyp: film.ErrTypeObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, st := newTestServer(t)

			rec := do(t, srv.Handler(), http.MethodPost, "/films/", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

			first := gjson.Get(rec.Body.String(), "detail.0")
			require.True(t, first.Exists(), rec.Body.String())
			assert.JSONEq(t, tt.wantLoc, first.Get("loc").Raw)
			assert.Equal(t, tt.wantTyp, first.Get("type").String())
			assert.NotEmpty(t, first.Get("msg").String())

			assert.Equal(t, 0, st.Len(), "store must be untouched")
		})
	}
}

func TestCreate_NumericStringID(t *testing.T) {
	srv, st := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodPost, "/films/", `{"id":"7","name":"A","author":"B","description":"C","genre":"D"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(7), gjson.Get(rec.Body.String(), "id").Int())
	assert.Equal(t, gjson.Number, gjson.Get(rec.Body.String(), "id").Type)

	_, ok := st.Find(7)
	assert.True(t, ok)
}

func TestCreate_BodyTooLarge(t *testing.T) {
	srv, st := newTestServer(t)

	big := `{"id":1,"name":"` + strings.Repeat("x", maxBodyBytes) + `","author":"","description":"","genre":""}`
	rec := do(t, srv.Handler(), http.MethodPost, "/films/", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, st.Len())
}

func TestUpdate_Missing(t *testing.T) {
	srv, st := newTestServer(t)
	before, err := os.ReadFile(st.Path())
	require.NoError(t, err)

	rec := do(t, srv.Handler(), http.MethodPut, "/films/99", videoA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":false}`, rec.Body.String())

	after, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_EchoesRequestBody(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/films/", videoA).Code)

	rec := do(t, h, http.MethodPut, "/films/1",
		`{"id":500,"name":"N","author":"A","description":"D","genre":"G"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(500), gjson.Get(rec.Body.String(), "video.id").Int())

	// The stored record keeps its id.
	v, ok := st.Find(1)
	require.True(t, ok)
	assert.Equal(t, "N", v.Name)
	_, ok = st.Find(500)
	assert.False(t, ok)
}

func TestUpdate_ReportsPathAndBodyErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodPut, "/films/abc", `{"id":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	detail := gjson.Get(rec.Body.String(), "detail").Array()
	require.Len(t, detail, 5)
	assert.JSONEq(t, `["path","video_id"]`, detail[0].Get("loc").Raw)
	assert.Equal(t, film.ErrTypeIntParsing, detail[0].Get("type").String())
	assert.JSONEq(t, `["body","name"]`, detail[1].Get("loc").Raw)
}

func TestDelete_IsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodDelete, "/films/5", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"deleted":false}`, rec.Body.String())
	}
}

func TestPathID_MustBeInteger(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := do(t, h, method, "/films/1.5", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, method)
		assert.JSONEq(t, `["path","video_id"]`, gjson.Get(rec.Body.String(), "detail.0.loc").Raw)
	}
}

func TestIndex_ListsAllRecords(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No videos yet.")

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/films/", videoA).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/films/",
		`{"id":2,"name":"Second","author":"x","description":"y","genre":"z"}`).Code)

	body := do(t, h, http.MethodGet, "/", "").Body.String()
	assert.Contains(t, body, `href="/films/1"`)
	assert.Contains(t, body, `href="/films/2"`)
	assert.Less(t, strings.Index(body, `href="/films/1"`), strings.Index(body, `href="/films/2"`))
}

func TestHealthRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", gjson.Get(rec.Body.String(), "status").String())

	rec = do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsRoute_OnlyWhenConfigured(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, srv.Handler(), http.MethodGet, "/metrics", "").Code)

	st := store.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, st.Load(context.Background()))
	pages, err := views.New()
	require.NoError(t, err)

	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	srv, err = New(testConfig(), st, pages, WithMetricsHandler(metricsHandler))
	require.NoError(t, err)

	rec := do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}

// failingCatalog returns errors from every mutation.
type failingCatalog struct{ err error }

func (f failingCatalog) List() []film.Video                       { return nil }
func (f failingCatalog) Find(int) (film.Video, bool)              { return film.Video{}, false }
func (f failingCatalog) Append(context.Context, film.Video) error { return f.err }
func (f failingCatalog) Update(context.Context, int, film.Video) (bool, error) {
	return false, f.err
}
func (f failingCatalog) Remove(context.Context, int) (film.Video, bool, error) {
	return film.Video{}, false, f.err
}

func TestStoreFailure_Returns500WithRequestID(t *testing.T) {
	pages, err := views.New()
	require.NoError(t, err)
	srv, err := New(testConfig(), failingCatalog{err: errors.New("disk full")}, pages)
	require.NoError(t, err)
	h := srv.Handler()

	cases := []struct{ method, target, body string }{
		{http.MethodPost, "/films/", videoA},
		{http.MethodPut, "/films/1", videoA},
		{http.MethodDelete, "/films/1", ""},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.target, strings.NewReader(c.body))
		req.Header.Set("X-Request-ID", "req-"+c.method)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code, c.method)
		body := rec.Body.String()
		assert.Equal(t, "internal server error", gjson.Get(body, "error").String())
		assert.Equal(t, "req-"+c.method, gjson.Get(body, "request_id").String())
		assert.NotContains(t, body, "disk full")
	}
}

// brokenPages fails every render.
type brokenPages struct{}

func (brokenPages) RenderList(io.Writer, []film.Video) error  { return errors.New("template exploded") }
func (brokenPages) RenderDetail(io.Writer, *film.Video) error { return errors.New("template exploded") }

func TestRenderFailure_Returns500(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, st.Load(context.Background()))
	srv, err := New(testConfig(), st, brokenPages{})
	require.NoError(t, err)

	for _, target := range []string{"/", "/films/1"} {
		rec := do(t, srv.Handler(), http.MethodGet, target, "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), target)
	}
}
