package get_calendar

import (
	"errors"
	"net/http"
	"time"

	"laundry-booking-service/internal/api/handlers"
	"laundry-booking-service/internal/domain"
	"laundry-booking-service/internal/service/reservations"
	"laundry-booking-service/internal/service/reservations/models"
	"laundry-booking-service/pkg/ptr"
)

const (
	msgInvalidTime     = "некорректный формат времени, ожидается RFC 3339"
	msgInvalidRange    = "некорректный диапазон календаря"
	msgUnknownResource = "неизвестная машина"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations?resource=washer&from=...&to=...
// Все параметры опциональны: по умолчанию обе машины, месяц вперед
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListRangeRequest{}

	if resource := r.URL.Query().Get("resource"); resource != "" {
		req.ResourceID = ptr.Ptr(domain.ResourceID(resource))
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.logger.Warn("GET /reservations - Invalid from parameter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		req.RangeStart = ptr.Ptr(t)
	}

	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.logger.Warn("GET /reservations - Invalid to parameter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		req.RangeEnd = ptr.Ptr(t)
	}

	result, err := h.service.ListRange(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrUnknownResource):
			h.logger.Warn("GET /reservations - Unknown resource")
			handlers.RespondNotFound(w, msgUnknownResource)

		case errors.Is(err, reservations.ErrInvalidRange):
			h.logger.Warn("GET /reservations - Invalid range")
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /reservations - Failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
