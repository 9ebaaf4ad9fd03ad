package book_next_available

import (
	"errors"
	"net/http"

	"laundry-booking-service/internal/api/handlers"
	"laundry-booking-service/internal/api/middleware"
	bookNextAvailable "laundry-booking-service/internal/usecase/book_next_available"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNoSlotFound        = "нет свободного интервала в горизонте поиска"
	msgUnknownResource    = "неизвестная машина"
	msgStoreUnavailable   = "хранилище бронирований временно недоступно"
	msgInvalidInput       = "некорректные входные данные"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase BookNextAvailableUseCase
	logger  Logger
}

func NewHandler(useCase BookNextAvailableUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/next-available
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req BookNextAvailableRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/next-available - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, bookNextAvailable.ErrNoSlotFound):
			h.logger.Warn("POST /reservations/next-available - No slot found: user_id=%d, resource=%s",
				userID, req.ResourceID)
			handlers.RespondError(w, http.StatusConflict, msgNoSlotFound)

		case errors.Is(err, bookNextAvailable.ErrUnknownResource):
			h.logger.Warn("POST /reservations/next-available - Unknown resource %q: user_id=%d",
				req.ResourceID, userID)
			handlers.RespondNotFound(w, msgUnknownResource)

		case errors.Is(err, bookNextAvailable.ErrInvalidInput):
			h.logger.Warn("POST /reservations/next-available - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookNextAvailable.ErrStoreUnavailable):
			h.logger.Error("POST /reservations/next-available - Store unavailable: user_id=%d, error=%v", userID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStoreUnavailable)

		default:
			h.logger.Error("POST /reservations/next-available - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/next-available - Reservation created: reservation_id=%d, user_id=%d, resource=%s",
		result.ID, userID, result.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
