package get_vapid_key

import (
	"net/http"

	"laundry-booking-service/internal/api/handlers"
)

// VAPIDKeyResponse публичный VAPID ключ для подписки на push в браузере
type VAPIDKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

type Handler struct {
	publicKey string
}

func NewHandler(publicKey string) *Handler {
	return &Handler{publicKey: publicKey}
}

// Handle GET /api/v1/push/vapid-public-key
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.publicKey == "" {
		handlers.RespondNotFound(w, "push notifications are not configured")
		return
	}
	handlers.RespondJSON(w, http.StatusOK, VAPIDKeyResponse{PublicKey: h.publicKey})
}
