package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseCache(t *testing.T) {
	hits := 0
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"hit":%d}`, hits)
	})

	t.Run("second GET is served from cache", func(t *testing.T) {
		hits = 0
		handler := NewResponseCache(30 * time.Second).Middleware(backend)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/machines/washer/status", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/machines/washer/status", nil))

		assert.Equal(t, 1, hits)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	})

	t.Run("different URLs cached separately", func(t *testing.T) {
		hits = 0
		handler := NewResponseCache(30 * time.Second).Middleware(backend)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/machines/washer/status", nil))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/machines/dryer/status", nil))

		assert.Equal(t, 2, hits)
	})

	t.Run("non-GET bypasses cache", func(t *testing.T) {
		hits = 0
		handler := NewResponseCache(30 * time.Second).Middleware(backend)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, 2, hits)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		hits = 0
		handler := NewResponseCache(30 * time.Second).Middleware(failing)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, 2, hits)
	})
}
