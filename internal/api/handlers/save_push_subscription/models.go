package save_push_subscription

import "laundry-booking-service/internal/infra/storage/subscription"

// SaveSubscriptionRequest HTTP request model.
// Поле keys повторяет формат PushSubscription.toJSON() браузера
type SaveSubscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256DH string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// ToStorageModel конвертирует HTTP запрос в модель хранилища
func (r *SaveSubscriptionRequest) ToStorageModel(userID int64) *subscription.PushSubscription {
	return &subscription.PushSubscription{
		Endpoint: r.Endpoint,
		P256DH:   r.Keys.P256DH,
		Auth:     r.Keys.Auth,
		OwnerID:  userID,
	}
}
