package machinestate

import (
	"errors"
	"sync"
	"time"

	"laundry-booking-service/internal/domain"
	"laundry-booking-service/internal/integrations/homeassistant"
)

// Reconciler сводит наблюдения фида устройств в отображаемое состояние машин.
// Состояние пересчитывается на каждом тике опроса или при явной проверке
// свежести; единственная изменяемая переменная на машину - последний
// DerivedMachineState вместе с породившим его сэмплом.
type Reconciler struct {
	mu         sync.RWMutex
	states     map[domain.ResourceID]domain.DerivedMachineState
	staleAfter time.Duration
}

// NewReconciler создает reconciler.
// staleAfter - возраст сэмпла, после которого состояние помечается
// устаревшим; обычно два интервала опроса (один пропущенный цикл)
func NewReconciler(staleAfter time.Duration) *Reconciler {
	return &Reconciler{
		states:     make(map[domain.ResourceID]domain.DerivedMachineState),
		staleAfter: staleAfter,
	}
}

// Apply применяет результат одного опроса фида и возвращает новое
// отображаемое состояние.
//
// Правила (по приоритету):
//  1. Фид выключен -> Unconfigured.
//  2. Ошибка фида -> прошлый displayStatus сохраняется, выставляются
//     IsStale и ErrorKind; кратковременный сбой фида не стирает
//     последний известный прогресс цикла.
//  3. Валидный сэмпл -> статус берется напрямую из сэмпла, без
//     домысливания: "finished" по таймауту reconciler не угадывает.
func (r *Reconciler) Apply(machine domain.ResourceID, sample *domain.DeviceSample, feedErr error, now time.Time) domain.DerivedMachineState {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, hasPrev := r.states[machine]

	var next domain.DerivedMachineState

	switch {
	case feedErr != nil:
		next = r.degraded(prev, hasPrev, feedErr, now)

	case sample == nil || !sample.Enabled:
		next = domain.DerivedMachineState{
			DisplayStatus: domain.StatusUnconfigured,
			ObservedAt:    now,
		}

	default:
		next = domain.DerivedMachineState{
			DisplayStatus:        deriveDisplayStatus(sample),
			TimeRemainingMinutes: sample.NormalizedTimeRemaining(),
			IsStale:              now.Sub(sample.ObservedAt) > r.staleAfter,
			ObservedAt:           sample.ObservedAt,
		}
	}

	r.states[machine] = next
	return next
}

// degraded сохраняет последнее известное состояние при ошибке фида
func (r *Reconciler) degraded(prev domain.DerivedMachineState, hasPrev bool, feedErr error, now time.Time) domain.DerivedMachineState {
	kind := classifyFeedError(feedErr)

	if !hasPrev {
		return domain.DerivedMachineState{
			DisplayStatus: domain.StatusUnknown,
			IsStale:       true,
			ErrorKind:     &kind,
			ObservedAt:    now,
		}
	}

	next := prev
	next.IsStale = true
	next.ErrorKind = &kind
	return next
}

// Snapshot возвращает текущее состояние машины с пересчетом свежести
// на момент вызова. Для машины без единого наблюдения - Unknown + stale.
func (r *Reconciler) Snapshot(machine domain.ResourceID, now time.Time) domain.DerivedMachineState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[machine]
	if !ok {
		return domain.DerivedMachineState{
			DisplayStatus: domain.StatusUnknown,
			IsStale:       true,
			ObservedAt:    now,
		}
	}

	if !state.IsStale && now.Sub(state.ObservedAt) > r.staleAfter {
		state.IsStale = true
	}
	return state
}

// deriveDisplayStatus отображает сэмпл в статус напрямую:
// флаг running имеет приоритет над текстовой меткой
func deriveDisplayStatus(sample *domain.DeviceSample) domain.DisplayStatus {
	if sample.Running {
		return domain.StatusRunning
	}
	switch sample.StatusLabel {
	case domain.StatusIdle, domain.StatusRunning, domain.StatusFinished:
		return sample.StatusLabel
	default:
		return domain.StatusUnknown
	}
}

func classifyFeedError(err error) domain.FeedErrorKind {
	switch {
	case errors.Is(err, homeassistant.ErrUnauthorized):
		return domain.FeedErrUnauthorized
	case errors.Is(err, homeassistant.ErrForbidden):
		return domain.FeedErrForbidden
	default:
		return domain.FeedErrUnreachable
	}
}
