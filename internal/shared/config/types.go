// Package config defines the typed configuration structures shared across
// the application. Values are populated by the infrastructure config loader.
package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN builds the MySQL DSN. multiStatements is on so versioned migration
// scripts containing several statements can run over the same connection.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GatewayConfig holds the PortOne payment gateway settings. The API secret is
// exchanged for a short-lived bearer token on every gateway invocation.
type GatewayConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APISecret      string        `mapstructure:"api_secret"`
	WebhookSecret  string        `mapstructure:"webhook_secret"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	OrderLabel     string        `mapstructure:"order_label"`
	Currency       string        `mapstructure:"currency"`
}

// RevenueConfig holds revenue recognition settings.
type RevenueConfig struct {
	// PlatformFeeRate is the platform share of each product sale (0.20 = 20%).
	PlatformFeeRate float64 `mapstructure:"platform_fee_rate"`
}

// PlanConfig describes one purchasable subscription plan.
type PlanConfig struct {
	ID          string `mapstructure:"id"`
	Tier        string `mapstructure:"tier"`
	Interval    string `mapstructure:"interval"`
	AmountMinor int64  `mapstructure:"amount_minor"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour"`
}
