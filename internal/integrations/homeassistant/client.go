package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"laundry-booking-service/internal/domain"
)

// Client клиент фида состояния машин (Home Assistant REST API)
// Токен передается явно в заголовке каждого запроса, никакого
// процесс-глобального состояния авторизации
type Client struct {
	baseURL    string
	token      string
	enabled    bool
	entities   map[domain.ResourceID]MachineEntities
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента Home Assistant
func NewClient(
	baseURL string,
	token string,
	enabled bool,
	entities map[domain.ResourceID]MachineEntities,
	timeout time.Duration,
	rateLimitPerSec float64,
	log Logger,
) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		enabled:  enabled,
		entities: entities,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rateLimitPerSec), 1),
		log:     log,
	}
}

// Enabled сообщает, сконфигурирован ли фид
func (c *Client) Enabled() bool {
	return c.enabled && c.token != ""
}

// GetStatus снимает одно наблюдение состояния машины.
// Фид не сконфигурирован -> сэмпл с Enabled=false без ошибки.
// Ошибки транспорта/авторизации возвращаются как
// ErrUnauthorized / ErrForbidden / ErrUnreachable.
func (c *Client) GetStatus(ctx context.Context, machine domain.ResourceID) (*domain.DeviceSample, error) {
	now := time.Now()

	if !c.Enabled() {
		return &domain.DeviceSample{
			Enabled:     false,
			StatusLabel: domain.StatusUnknown,
			ObservedAt:  now,
		}, nil
	}

	ents, ok := c.entities[machine]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMachine, machine)
	}

	statusLabel, err := c.fetchStatusLabel(ctx, ents)
	if err != nil {
		return nil, err
	}

	running, err := c.fetchRunning(ctx, ents, statusLabel)
	if err != nil {
		return nil, err
	}

	timeRemaining, err := c.fetchTimeRemaining(ctx, ents)
	if err != nil {
		return nil, err
	}

	return &domain.DeviceSample{
		Enabled:              true,
		Running:              running,
		StatusLabel:          statusLabel,
		TimeRemainingMinutes: timeRemaining,
		ObservedAt:           now,
	}, nil
}

// fetchStatusLabel определяет статус машины.
// Датчик конца цикла имеет приоритет: "on" означает finished независимо
// от основного статуса
func (c *Client) fetchStatusLabel(ctx context.Context, ents MachineEntities) (domain.DisplayStatus, error) {
	if ents.EndOfCycle != "" {
		endOfCycle, err := c.getEntity(ctx, ents.EndOfCycle)
		if err != nil {
			return "", err
		}
		if strings.EqualFold(endOfCycle.State, "on") {
			return domain.StatusFinished, nil
		}
	}

	state, err := c.getEntity(ctx, ents.Status)
	if err != nil {
		return "", err
	}

	return normalizeState(state.State), nil
}

// fetchRunning проверяет флаг работы машины, сверяясь с основным статусом:
// удаленный переключатель может оставаться "on" когда машина уже в Standby
func (c *Client) fetchRunning(ctx context.Context, ents MachineEntities, statusLabel domain.DisplayStatus) (bool, error) {
	state, err := c.getEntity(ctx, ents.Running)
	if err != nil {
		return false, err
	}

	if !strings.EqualFold(state.State, "on") {
		return false, nil
	}

	return statusLabel != domain.StatusIdle && statusLabel != domain.StatusFinished, nil
}

// fetchTimeRemaining возвращает оставшееся время цикла в минутах.
// "unknown", пустое значение или мусор трактуются как отсутствие данных (nil),
// не как ноль: ноль это осмысленный сигнал "вот-вот закончит"
func (c *Client) fetchTimeRemaining(ctx context.Context, ents MachineEntities) (*int, error) {
	state, err := c.getEntity(ctx, ents.TimeRemaining)
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(state.State)
	if raw == "" || strings.EqualFold(raw, "unknown") || strings.EqualFold(raw, "unavailable") {
		return nil, nil
	}

	minutesFloat, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.log.Warn("GetStatus: unparsable time remaining %q for entity %s", raw, ents.TimeRemaining)
		return nil, nil
	}

	minutes := int(minutesFloat + 0.5)
	return &minutes, nil
}

func (c *Client) getEntity(ctx context.Context, entityID string) (*EntityState, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrUnreachable, err)
	}

	url := fmt.Sprintf("%s/api/states/%s", c.baseURL, entityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUnreachable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: entity %s: %v", ErrUnreachable, entityID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusForbidden:
		return nil, ErrForbidden
	default:
		return nil, fmt.Errorf("%w: entity %s: unexpected status code %d", ErrUnreachable, entityID, resp.StatusCode)
	}

	var state EntityState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("%w: entity %s: failed to decode response: %v", ErrUnreachable, entityID, err)
	}

	return &state, nil
}

// normalizeState приводит сырой статус Home Assistant к доменному
func normalizeState(raw string) domain.DisplayStatus {
	switch strings.ToLower(raw) {
	case "run", "running":
		return domain.StatusRunning
	case "idle", "standby":
		return domain.StatusIdle
	case "finished", "end of cycle", "complete":
		return domain.StatusFinished
	default:
		return domain.StatusUnknown
	}
}
