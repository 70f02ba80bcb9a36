package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-feed-backend/internal/apperr"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{apperr.ErrAlreadyExists, "conflict"},
		{apperr.ErrAlreadyLiked, "conflict"},
		{apperr.NotFound("post"), "not_found"},
		{apperr.Invalid("caption", "is required"), "invalid"},
		{apperr.ErrSelfReference, "invalid"},
		{apperr.ErrUnauthenticated, "invalid"},
		{errors.New("connection reset"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.err))
	}
}

func TestObserveWrite(t *testing.T) {
	m := New("test")
	m.ObserveWrite("follow", nil)
	m.ObserveWrite("follow", apperr.ErrAlreadyExists)
	m.ObserveWrite("follow", apperr.ErrAlreadyExists)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues("follow", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.writes.WithLabelValues("follow", "conflict")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveWrite("like", nil)
		nilMetrics.ObserveCache(true)
	})
}

func TestMiddleware(t *testing.T) {
	m := New("test")
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/posts/{post_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/posts/{post_id}", "404")))

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}
