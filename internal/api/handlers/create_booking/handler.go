package create_booking

import (
	"errors"
	"net/http"

	"laundry-booking-service/internal/api/handlers"
	"laundry-booking-service/internal/api/middleware"
	createBooking "laundry-booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC 3339"
	msgInvalidInterval    = "некорректный интервал бронирования"
	msgSlotConflict       = "выбранный интервал пересекается с существующим бронированием"
	msgLeadTimeViolation  = "слишком поздно для бронирования этого интервала"
	msgOutsideHours       = "интервал выходит за рабочие часы прачечной"
	msgUnknownResource    = "неизвестная машина"
	msgStoreUnavailable   = "хранилище бронирований временно недоступно"
	msgInvalidInput       = "некорректные входные данные"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: user_id=%d, resource=%s", userID, req.ResourceID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrInvalidInterval):
			h.logger.Warn("POST /reservations - Invalid interval: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, createBooking.ErrLeadTimeViolation):
			h.logger.Warn("POST /reservations - Lead time violation: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgLeadTimeViolation)

		case errors.Is(err, createBooking.ErrOutsideOperatingHours):
			h.logger.Warn("POST /reservations - Outside operating hours: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrUnknownResource):
			h.logger.Warn("POST /reservations - Unknown resource %q: user_id=%d", req.ResourceID, userID)
			handlers.RespondNotFound(w, msgUnknownResource)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrStoreUnavailable):
			h.logger.Error("POST /reservations - Store unavailable: user_id=%d, error=%v", userID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStoreUnavailable)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, user_id=%d, resource=%s",
		result.ID, userID, result.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
