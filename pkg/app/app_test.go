package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/lojinha/pkg/reqid"
	"github.com/shashiranjanraj/lojinha/pkg/response"
	"github.com/shashiranjanraj/lojinha/pkg/router"
)

func pingRoutes(r *router.Router) {
	r.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"pong": "ok"})
	})
}

func TestHandler_MountsRoutesAndMiddleware(t *testing.T) {
	h := New().Routes(pingRoutes).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pong":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))
}

func TestHandler_NotFoundIsJSON(t *testing.T) {
	h := New().Routes(pingRoutes).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Rota não encontrada"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	h := New().Routes(pingRoutes).Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lojinha_http_requests_total")
}

func execute(t *testing.T, a *Application, args ...string) (string, error) {
	t.Helper()
	root := a.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRouteList(t *testing.T) {
	booted := false
	a := New().
		Boot(func(context.Context) (func(), error) {
			booted = true
			return nil, nil
		}).
		Routes(pingRoutes)

	out, err := execute(t, a, "route:list")
	require.NoError(t, err)
	assert.True(t, booted)
	assert.Contains(t, out, "/ping")
	assert.Contains(t, out, "/metrics")
}

func TestRouteList_BootError(t *testing.T) {
	a := New().Boot(func(context.Context) (func(), error) {
		return nil, errors.New("no db")
	})

	_, err := execute(t, a, "routes")
	assert.ErrorContains(t, err, "boot: no db")
}

func TestCustomCommand(t *testing.T) {
	ran := false
	a := New().Command(&cobra.Command{
		Use: "hello",
		Run: func(*cobra.Command, []string) { ran = true },
	})

	_, err := execute(t, a, "hello")
	require.NoError(t, err)
	assert.True(t, ran)
}
