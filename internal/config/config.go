package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Booking       BookingConfig       `toml:"booking"`
	HomeAssistant HomeAssistantConfig `toml:"homeassistant"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig правила бронирования прачечной
// Значения используются как дефолтные ограничения поиска и валидации;
// длительность авто-бронирования может переопределяться в запросе
type BookingConfig struct {
	OperatingWindowStartHour int    `toml:"operating_window_start_hour"`
	OperatingWindowEndHour   int    `toml:"operating_window_end_hour"`
	SearchHorizonDays        int    `toml:"search_horizon_days"`
	MinimumLeadMinutes       int    `toml:"minimum_lead_minutes"`
	DefaultDurationMinutes   int    `toml:"default_duration_minutes"`
	MaxAutoBookRetries       int    `toml:"max_auto_book_retries"`
	Timezone                 string `toml:"timezone"`
}

// HomeAssistantConfig настройки фида состояния машин
type HomeAssistantConfig struct {
	Enabled             bool    `toml:"enabled"`
	BaseURL             string  `toml:"base_url"`
	Token               string  `toml:"token"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
	PollIntervalSeconds int     `toml:"poll_interval_seconds"`
	RateLimitPerSec     float64 `toml:"rate_limit_per_sec"`

	Washer MachineEntities `toml:"washer"`
	Dryer  MachineEntities `toml:"dryer"`
}

// MachineEntities идентификаторы сущностей Home Assistant для одной машины
type MachineEntities struct {
	Running       string `toml:"running_entity"`
	TimeRemaining string `toml:"time_remaining_entity"`
	Status        string `toml:"status_entity"`
	EndOfCycle    string `toml:"end_of_cycle_entity"`
}

// NotificationsConfig настройки push-уведомлений
type NotificationsConfig struct {
	Enabled             bool   `toml:"enabled"`
	VAPIDPublicKey      string `toml:"vapid_public_key"`
	VAPIDPrivateKey     string `toml:"vapid_private_key"`
	Subject             string `toml:"subject"`
	TTL                 int    `toml:"ttl"`
	WorkerPoolSize      int    `toml:"worker_pool_size"`
	ReminderLeadMinutes int    `toml:"reminder_lead_minutes"`
}

// ReminderLead за сколько до начала брони отправляется напоминание
func (c *NotificationsConfig) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}

// PollInterval интервал опроса фида
func (c *HomeAssistantConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Load читает конфигурацию из toml файла и применяет дефолты
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15
	}

	if cfg.Booking.OperatingWindowStartHour == 0 && cfg.Booking.OperatingWindowEndHour == 0 {
		cfg.Booking.OperatingWindowStartHour = 6
		cfg.Booking.OperatingWindowEndHour = 23
	}
	if cfg.Booking.SearchHorizonDays == 0 {
		cfg.Booking.SearchHorizonDays = 7
	}
	if cfg.Booking.MinimumLeadMinutes == 0 {
		cfg.Booking.MinimumLeadMinutes = 30
	}
	if cfg.Booking.DefaultDurationMinutes == 0 {
		cfg.Booking.DefaultDurationMinutes = 120
	}
	if cfg.Booking.MaxAutoBookRetries == 0 {
		cfg.Booking.MaxAutoBookRetries = 3
	}
	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "America/New_York"
	}

	if cfg.HomeAssistant.TimeoutSeconds == 0 {
		cfg.HomeAssistant.TimeoutSeconds = 10
	}
	if cfg.HomeAssistant.PollIntervalSeconds == 0 {
		cfg.HomeAssistant.PollIntervalSeconds = 10
	}
	if cfg.HomeAssistant.RateLimitPerSec == 0 {
		cfg.HomeAssistant.RateLimitPerSec = 5
	}

	if cfg.Notifications.TTL == 0 {
		cfg.Notifications.TTL = 3600
	}
	if cfg.Notifications.WorkerPoolSize == 0 {
		cfg.Notifications.WorkerPoolSize = 2
	}
	if cfg.Notifications.ReminderLeadMinutes == 0 {
		cfg.Notifications.ReminderLeadMinutes = 30
	}
}

func validate(cfg *Config) error {
	b := cfg.Booking
	if b.OperatingWindowStartHour < 0 || b.OperatingWindowEndHour > 24 ||
		b.OperatingWindowStartHour >= b.OperatingWindowEndHour {
		return fmt.Errorf("config: invalid operating window %d-%d",
			b.OperatingWindowStartHour, b.OperatingWindowEndHour)
	}
	if _, err := timeLoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("config: invalid booking timezone %q: %w", b.Timezone, err)
	}
	return nil
}
