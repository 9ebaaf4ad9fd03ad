package reservation

import (
	"laundry-booking-service/pkg/dbmetrics"
)

// Переиспользуем интерфейс исполнителя запросов из dbmetrics:
// подходит и *sql.DB, и обёртка с метриками, и транзакция из контекста
type DBExecutor = dbmetrics.DBExecutor
