package notification

import (
	"context"
	"fmt"
	"time"

	"laundry-booking-service/internal/domain"
)

// интервал проверки приближающихся броней
const reminderCheckInterval = time.Minute

// ReminderRepository читает брони, пересекающие диапазон
type ReminderRepository interface {
	ListRange(ctx context.Context, resourceID *domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error)
}

// Dispatcher ставит задания в очередь рассылки
type Dispatcher interface {
	Dispatch(job Job)
}

// Reminder периодически напоминает владельцам о скором начале их броней.
// Каждая бронь напоминается один раз; после начала запись выбрасывается
// из памяти, так что перезапуск сервиса может повторить напоминание
type Reminder struct {
	repo          ReminderRepository
	dispatcher    Dispatcher
	lead          time.Duration
	checkInterval time.Duration
	logger        Logger

	notified map[int64]time.Time
}

// NewReminder создает напоминатель. lead - за сколько до начала брони
// уходит уведомление
func NewReminder(repo ReminderRepository, dispatcher Dispatcher, lead time.Duration, logger Logger) *Reminder {
	return &Reminder{
		repo:          repo,
		dispatcher:    dispatcher,
		lead:          lead,
		checkInterval: reminderCheckInterval,
		logger:        logger,
	}
}

// Run крутит цикл проверки до отмены контекста
func (r *Reminder) Run(ctx context.Context) {
	r.logger.Info("Reminder: starting, lead %s", r.lead)

	r.tick(ctx, time.Now())

	ticker := time.NewTicker(r.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reminder: shutting down")
			return
		case <-ticker.C:
			r.tick(ctx, time.Now())
		}
	}
}

// tick один проход: брони, начинающиеся в ближайшие lead минут,
// получают по одному напоминанию
func (r *Reminder) tick(ctx context.Context, now time.Time) {
	if r.notified == nil {
		r.notified = make(map[int64]time.Time)
	}

	upcoming, err := r.repo.ListRange(ctx, nil, now, now.Add(r.lead))
	if err != nil {
		r.logger.Error("Reminder: failed to list upcoming reservations: %v", err)
		return
	}

	for _, res := range upcoming {
		// ListRange отдает и уже идущие брони; напоминать о них поздно
		if res.Interval.Start.Before(now) {
			continue
		}
		if _, seen := r.notified[res.ID]; seen {
			continue
		}
		r.notified[res.ID] = res.Interval.Start

		r.dispatcher.Dispatch(Job{
			OwnerID: &res.OwnerID,
			Title:   "Laundry slot starting soon",
			Body: fmt.Sprintf("Your %s slot starts at %s",
				res.ResourceID,
				res.Interval.Start.Format("15:04")),
		})
	}

	// Начавшиеся брони больше не вернутся в окно просмотра
	for id, start := range r.notified {
		if start.Before(now) {
			delete(r.notified, id)
		}
	}
}
