package book_next_available

import (
	"context"
	"fmt"
	"time"

	"laundry-booking-service/internal/domain"
)

// findNext ищет самый ранний свободный интервал нужной длительности.
//
// Сканирование идет вперед от max(anchor, now + minimumLead) по дням
// горизонта. Для каждого дня окно кандидатов обрезается рабочими часами
// в локальном времени прачечной. Бронирования на весь горизонт
// загружаются одним пакетным запросом (отсортированы по началу), дальше
// идет параллельный обход окна и списка: кандидат - позднее из (текущий
// указатель, открытие окна); если до начала следующего бронирования
// (или до закрытия окна) помещается duration - интервал возвращается
// сразу. Первый подходящий, без оптимизации размера зазора; результат
// детерминирован при одинаковых входных данных.
func findNext(
	ctx context.Context,
	repo ReservationRepository,
	resourceID domain.ResourceID,
	constraints domain.BookingConstraints,
	anchor time.Time,
	now time.Time,
	loc *time.Location,
) (domain.Interval, error) {
	duration := time.Duration(constraints.DurationMinutes) * time.Minute

	scanFrom := now.Add(time.Duration(constraints.MinimumLeadMinutes) * time.Minute)
	if anchor.After(scanFrom) {
		scanFrom = anchor
	}
	scanFrom = scanFrom.In(loc)

	horizonEnd := scanFrom.AddDate(0, 0, constraints.SearchHorizonDays)

	reservations, err := repo.ListActive(ctx, resourceID, scanFrom, horizonEnd)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: list reservations: %v", ErrStoreUnavailable, err)
	}

	for day := 0; day < constraints.SearchHorizonDays; day++ {
		y, m, d := scanFrom.AddDate(0, 0, day).Date()
		windowOpen := time.Date(y, m, d, constraints.OperatingWindow.StartHour, 0, 0, 0, loc)
		windowClose := time.Date(y, m, d, constraints.OperatingWindow.EndHour, 0, 0, 0, loc)

		candidate := windowOpen
		if scanFrom.After(candidate) {
			candidate = scanFrom
		}

		if interval, ok := fitInDay(candidate, windowClose, duration, reservations); ok {
			return interval, nil
		}
	}

	return domain.Interval{}, ErrNoSlotFound
}

// fitInDay идет по отсортированным бронированиям и возвращает первый
// зазор дня, вмещающий duration. Указатель сдвигается за конец каждого
// мешающего бронирования
func fitInDay(candidate, windowClose time.Time, duration time.Duration, reservations []*domain.Reservation) (domain.Interval, bool) {
	for _, res := range reservations {
		// Бронирование целиком до кандидата - не мешает
		if !res.Interval.End.After(candidate) {
			continue
		}
		// Бронирование начинается после закрытия окна - дальше по списку
		// только более поздние, в этом дне они не мешают
		if !res.Interval.Start.Before(windowClose) {
			break
		}

		// Зазор до начала бронирования достаточен?
		if !candidate.Add(duration).After(res.Interval.Start) {
			return domain.Interval{Start: candidate, End: candidate.Add(duration)}, true
		}

		if res.Interval.End.After(candidate) {
			candidate = res.Interval.End
		}

		if candidate.Add(duration).After(windowClose) {
			return domain.Interval{}, false
		}
	}

	if !candidate.Add(duration).After(windowClose) {
		return domain.Interval{Start: candidate, End: candidate.Add(duration)}, true
	}

	return domain.Interval{}, false
}
