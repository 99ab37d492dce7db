package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticGate struct {
	valid string
}

func (g staticGate) Validate(token string) bool {
	return token == g.valid
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAdminSession(t *testing.T) {
	h := AdminSession(staticGate{valid: "good"}, "leads_admin")(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no credential", func(r *http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "leads_admin", Value: "good"}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer forged") }, http.StatusUnauthorized},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic good") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/admin/leads/{id}", okHandler)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/admin/leads/{id}", "200"))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/leads/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/admin/leads/{id}", "200"))
	assert.Equal(t, 2.0, after-before)
}

func TestRecordLeadCounters(t *testing.T) {
	captured := testutil.ToFloat64(leadsCaptured.WithLabelValues("sale_inquiry"))
	rejected := testutil.ToFloat64(leadsRejected.WithLabelValues(ReasonRateLimited))
	changed := testutil.ToFloat64(leadStatusChanges.WithLabelValues("closed"))

	RecordLeadCaptured("sale_inquiry")
	RecordLeadRejected(ReasonRateLimited)
	RecordStatusChange("closed")

	assert.Equal(t, captured+1, testutil.ToFloat64(leadsCaptured.WithLabelValues("sale_inquiry")))
	assert.Equal(t, rejected+1, testutil.ToFloat64(leadsRejected.WithLabelValues(ReasonRateLimited)))
	assert.Equal(t, changed+1, testutil.ToFloat64(leadStatusChanges.WithLabelValues("closed")))
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(logger))
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, 500, entry.Data["status"])
	assert.NotEmpty(t, entry.Data["request_id"])
}
