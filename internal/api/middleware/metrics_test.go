package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"laundry-booking-service/pkg/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	// Единственный вызов New на тестовый бинарник: promauto регистрирует
	// коллекторы в глобальном registry
	m := metrics.New("test")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/machines/{machineId}/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/machines/washer/status", nil))

	// Статус ответа проходит через recorder без искажений
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
