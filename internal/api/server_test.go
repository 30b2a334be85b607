package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scryptocybershield/sportsclub/internal/config"
	"github.com/scryptocybershield/sportsclub/internal/database"
	"github.com/scryptocybershield/sportsclub/internal/metrics"
)

var testEpoch = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

// testAPI is a fully routed server over a private in-memory database.
type testAPI struct {
	t      *testing.T
	server *Server
	db     *database.Service
	router *chi.Mux
	clock  *clockwork.FakeClock
}

func newTestAPI(t *testing.T, configure ...func(*config.Config)) *testAPI {
	t.Helper()

	cfg := config.Default()
	cfg.AuthEnabled = false
	for _, fn := range configure {
		fn(cfg)
	}

	clock := clockwork.NewFakeClockAt(testEpoch)
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewService("file:api_"+name+"?mode=memory&cache=shared", database.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate())

	srv := NewServer(cfg, db, metrics.New())
	r := chi.NewRouter()
	srv.RegisterRoutes(r)

	return &testAPI{t: t, server: srv, db: db, router: r, clock: clock}
}

func (a *testAPI) request(method, path, body string, headers ...http.Header) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// create POSTs body to path and returns the new record's public_id.
func (a *testAPI) create(path, body string) string {
	a.t.Helper()
	rr := a.request(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[map[string]interface{}](a.t, rr)
	id, _ := created["public_id"].(string)
	require.NotEmpty(a.t, id)
	return id
}

// get fetches path and requires a 200.
func (a *testAPI) get(path string) map[string]interface{} {
	a.t.Helper()
	rr := a.request(http.MethodGet, path, "")
	require.Equal(a.t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[map[string]interface{}](a.t, rr)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// fieldErrors decodes a 422 body.
func fieldErrors(t *testing.T, rr *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())
	body := decode[struct {
		Detail map[string][]string `json:"detail"`
	}](t, rr)
	return body.Detail
}

func detailMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[struct {
		Detail string `json:"detail"`
	}](t, rr)
	return body.Detail
}

func TestHandleErrorMapping(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"not found", database.ErrNotFound, http.StatusNotFound, "Resource not found"},
		{"wrapped not found", errors.Join(errors.New("season \"x\""), database.ErrNotFound), http.StatusNotFound, "Resource not found"},
		{"conflict", database.ErrConflict, http.StatusConflict, "A record with this data already exists."},
		{"bad request", &badRequestError{"malformed JSON at offset 1"}, http.StatusBadRequest, "malformed JSON at offset 1"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			api.server.handleError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.detail, detailMessage(t, rr))
		})
	}

	t.Run("validation", func(t *testing.T) {
		verr := &ValidationError{}
		verr.Add("line1", "field required")
		rr := httptest.NewRecorder()
		api.server.handleError(rr, httptest.NewRequest(http.MethodGet, "/", nil), verr)
		assert.Equal(t, map[string][]string{"line1": {"field required"}}, fieldErrors(t, rr))
	})
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, func(c *config.Config) { c.AuthEnabled = true })

	rr := api.request(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestMetricsEndpointCountsWrites(t *testing.T) {
	api := newTestAPI(t)
	api.create("/api/v1/core/addresses", `{"line1":"Carrer de Sant Miquel, 2"}`)

	rr := api.request(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `sportsclub_store_entity_writes_total{op="create",table="addresses"} 1`)
	assert.Contains(t, rr.Body.String(), `sportsclub_http_requests_total{method="POST"`)
}

func TestDecodeFailures(t *testing.T) {
	api := newTestAPI(t)

	t.Run("malformed json", func(t *testing.T) {
		rr := api.request(http.MethodPost, "/api/v1/core/addresses", `{"line1":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("two documents", func(t *testing.T) {
		rr := api.request(http.MethodPost, "/api/v1/core/addresses", `{"line1":"A"} {"line1":"B"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		rr := api.request(http.MethodPost, "/api/v1/core/addresses", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("wrong type is a field error", func(t *testing.T) {
		rr := api.request(http.MethodPost, "/api/v1/inventory/venues", `{"name":"Son Moix","capacity":"lots"}`)
		errs := fieldErrors(t, rr)
		assert.Contains(t, errs, "capacity")
	})

	t.Run("bad date is a field error", func(t *testing.T) {
		rr := api.request(http.MethodPost, "/api/v1/scheduling/seasons",
			`{"name":"2025","start_date":"01/01/2025","end_date":"2025-12-31"}`)
		errs := fieldErrors(t, rr)
		assert.Contains(t, errs, "start_date")
	})
}
