package machinestate

import (
	"context"
	"time"

	"laundry-booking-service/internal/domain"
)

// FinishedFunc вызывается при переходе машины running -> finished
type FinishedFunc func(machine domain.ResourceID)

// Poller опрашивает фид устройств с фиксированным интервалом и кормит
// результаты reconciler'у. Останавливается отменой контекста; цикл,
// заставший отмену в полете, выбрасывает результат, а не применяет
// его задним числом.
type Poller struct {
	feed       DeviceFeed
	reconciler *Reconciler
	machines   []domain.ResourceID
	interval   time.Duration
	onFinished FinishedFunc
	metrics    Metrics
	log        Logger
}

// NewPoller создает poller для перечисленных машин
func NewPoller(
	feed DeviceFeed,
	reconciler *Reconciler,
	machines []domain.ResourceID,
	interval time.Duration,
	onFinished FinishedFunc,
	metrics Metrics,
	log Logger,
) *Poller {
	return &Poller{
		feed:       feed,
		reconciler: reconciler,
		machines:   machines,
		interval:   interval,
		onFinished: onFinished,
		metrics:    metrics,
		log:        log,
	}
}

// Run запускает цикл опроса до отмены контекста
func (p *Poller) Run(ctx context.Context) {
	if !p.feed.Enabled() {
		// Без опроса reconciler остался бы на Unknown; выключенный фид
		// должен отображаться как Unconfigured
		now := time.Now()
		for _, machine := range p.machines {
			p.reconciler.Apply(machine, nil, nil, now)
		}
		p.log.Info("Poller: device feed is disabled, not starting")
		return
	}

	p.log.Info("Poller: starting with interval %s", p.interval)

	p.pollOnce(ctx)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Poller: shutting down")
			return
		case <-timer.C:
			p.pollOnce(ctx)
			timer.Reset(p.interval)
		}
	}
}

// pollOnce выполняет один цикл опроса всех машин
func (p *Poller) pollOnce(ctx context.Context) {
	now := time.Now()

	for _, machine := range p.machines {
		sample, err := p.feed.GetStatus(ctx, machine)

		// Отмена во время запроса: результат не применяем
		if ctx.Err() != nil {
			return
		}

		prev := p.reconciler.Snapshot(machine, now)
		next := p.reconciler.Apply(machine, sample, err, now)

		if err != nil {
			p.log.Warn("Poller: feed error for %s: %v", machine, err)
			if p.metrics != nil {
				p.metrics.IncPollCycle(string(machine), "error")
			}
			continue
		}

		if p.metrics != nil {
			p.metrics.IncPollCycle(string(machine), "ok")
		}

		if p.onFinished != nil &&
			prev.DisplayStatus == domain.StatusRunning &&
			next.DisplayStatus == domain.StatusFinished {
			p.log.Info("Poller: %s finished its cycle", machine)
			p.onFinished(machine)
		}
	}
}
