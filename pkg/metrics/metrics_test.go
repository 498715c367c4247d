package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/api/things/{id}", "418"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/things/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/things/2", nil))

	after := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/api/things/{id}", "418"))
	assert.Equal(t, before+2, after)
}

func TestRecordCheckout(t *testing.T) {
	ok := Checkouts.WithLabelValues("success", "pix")
	failed := Checkouts.WithLabelValues("product_not_found", "pix")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordCheckout("success", "pix", 129.8)
	RecordCheckout("product_not_found", "pix", 0)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	UsersRegistered.Inc()

	rec := httptest.NewRecorder()
	Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lojinha_shop_users_registered_total")
}
