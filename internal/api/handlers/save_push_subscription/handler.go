package save_push_subscription

import (
	"net/http"

	"laundry-booking-service/internal/api/handlers"
	"laundry-booking-service/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingFields      = "endpoint и ключи подписки обязательны"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	repo   SubscriptionRepository
	logger Logger
}

func NewHandler(repo SubscriptionRepository, logger Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// Handle POST /api/v1/push/subscriptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req SaveSubscriptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /push/subscriptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Endpoint == "" || req.Keys.P256DH == "" || req.Keys.Auth == "" {
		h.logger.Warn("POST /push/subscriptions - Missing fields: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	if err := h.repo.Upsert(r.Context(), req.ToStorageModel(userID)); err != nil {
		h.logger.Error("POST /push/subscriptions - Failed to save subscription: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /push/subscriptions - Subscription saved: user_id=%d", userID)
	handlers.RespondJSON(w, http.StatusCreated, nil)
}
