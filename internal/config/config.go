package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/TLP-LaunchService/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Booking        BookingConfig        `toml:"booking"`
	ProductService ProductServiceConfig `toml:"product_service"`
}

// ServerConfig настройки HTTP-сервера (таймауты в секундах)
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
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig политика бронирования слотов запуска
type BookingConfig struct {
	// Capacity число мест в одном дне (по умолчанию 3)
	Capacity int `toml:"capacity"`
	// NonPremiumCap суб-квота для non-premium продуктов (по умолчанию 1)
	NonPremiumCap int `toml:"non_premium_cap"`
	// AllowNonPremiumOverflow разрешить non-premium занимать premium-места
	AllowNonPremiumOverflow bool `toml:"allow_non_premium_overflow"`
	// WindowDays окно выдачи доступности по умолчанию
	WindowDays int `toml:"window_days"`
	// HorizonDays глубина автоподбора даты
	HorizonDays int `toml:"horizon_days"`
	// MinLeadDays смещение первого доступного дня (0 = сегодня)
	MinLeadDays int `toml:"min_lead_days"`
	// SlotWindowDays на сколько дней вперед фоновая задача создает слоты
	SlotWindowDays int `toml:"slot_window_days"`
}

// Policy конвертирует конфигурацию в доменную политику с дефолтами
func (b BookingConfig) Policy() domain.SlotPolicy {
	return domain.SlotPolicy{
		Capacity:                b.Capacity,
		NonPremiumCap:           b.NonPremiumCap,
		AllowNonPremiumOverflow: b.AllowNonPremiumOverflow,
		WindowDays:              b.WindowDays,
		HorizonDays:             b.HorizonDays,
		MinLeadDays:             b.MinLeadDays,
	}.Normalize()
}

// ProductServiceConfig настройки клиента ProductService
type ProductServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load загружает конфигурацию из TOML-файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be in (0, 65535], got %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Booking.Capacity < 0 || c.Booking.Capacity > domain.MaxCapacity {
		return fmt.Errorf("booking.capacity must be in [0, %d], got %d", domain.MaxCapacity, c.Booking.Capacity)
	}
	if c.Booking.NonPremiumCap > c.Booking.Capacity && c.Booking.Capacity > 0 {
		return fmt.Errorf("booking.non_premium_cap (%d) must not exceed booking.capacity (%d)",
			c.Booking.NonPremiumCap, c.Booking.Capacity)
	}
	if c.Booking.HorizonDays > domain.MaxHorizonDays {
		return fmt.Errorf("booking.horizon_days must not exceed %d, got %d", domain.MaxHorizonDays, c.Booking.HorizonDays)
	}
	if c.Booking.WindowDays > domain.MaxWindowDays {
		return fmt.Errorf("booking.window_days must not exceed %d, got %d", domain.MaxWindowDays, c.Booking.WindowDays)
	}
	return nil
}
