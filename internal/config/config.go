// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"leadcredit/pkg/db"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort  string           `toml:"server_port"`
	AutoMigrate bool             `toml:"auto_migrate"`
	DB          db.Config        `toml:"db"`
	Redis       RedisConfig      `toml:"redis"`
	SMTP        SMTPConfig       `toml:"smtp"`
	Admin       AdminConfig      `toml:"admin"`
	Quote       QuoteLimitConfig `toml:"quote"`
	Purchase    PurchaseConfig   `toml:"purchase"`
	Log         LogConfig        `toml:"log"`
}

// RedisConfig locates the notification queue. An empty Addr disables notifications.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// SMTPConfig is the outbound mail relay used by the notification worker.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// AdminConfig holds the basic auth credentials of the /admin routes.
type AdminConfig struct {
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// QuoteLimitConfig is the per-IP token bucket of the quote endpoint.
type QuoteLimitConfig struct {
	RPS   float64 `toml:"rate_limit_rps"`
	Burst int     `toml:"rate_limit_burst"`
}

// PurchaseConfig tunes the purchase unit of work.
type PurchaseConfig struct {
	MaxAttempts int           `toml:"max_attempts"`
	LockTimeout time.Duration `toml:"lock_timeout"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Defaults returns the configuration used for every key neither the file nor
// the environment sets.
func Defaults() AppConfig {
	return AppConfig{
		ServerPort: "8080",
		DB: db.Config{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "password",
			DBName:   "leadcredit",
			SSLMode:  "disable",
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "noreply@leadcredit.local",
		},
		Quote: QuoteLimitConfig{
			RPS:   5,
			Burst: 10,
		},
		Purchase: PurchaseConfig{
			MaxAttempts: 3,
			LockTimeout: 2 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration in three layers: defaults, then the TOML file
// named by CONFIG_FILE, then environment variables (a .env file is read first
// if present).
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.ServerPort, "SERVER_PORT")

	setString(&cfg.DB.Host, "DB_HOST")
	setString(&cfg.DB.User, "DB_USER")
	setString(&cfg.DB.Password, "DB_PASSWORD")
	setString(&cfg.DB.DBName, "DB_NAME")
	setString(&cfg.DB.SSLMode, "DB_SSLMODE")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.SMTP.Host, "SMTP_HOST")
	setString(&cfg.SMTP.User, "SMTP_USER")
	setString(&cfg.SMTP.Password, "SMTP_PASSWORD")
	setString(&cfg.SMTP.From, "NOTIFY_FROM")

	setString(&cfg.Admin.User, "ADMIN_USER")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	ints := []struct {
		key string
		dst *int
	}{
		{"DB_PORT", &cfg.DB.Port},
		{"DB_MAX_OPEN_CONNS", &cfg.DB.MaxOpenConns},
		{"DB_MAX_IDLE_CONNS", &cfg.DB.MaxIdleConns},
		{"REDIS_DB", &cfg.Redis.DB},
		{"SMTP_PORT", &cfg.SMTP.Port},
		{"QUOTE_RATE_LIMIT_BURST", &cfg.Quote.Burst},
		{"PURCHASE_MAX_ATTEMPTS", &cfg.Purchase.MaxAttempts},
	}
	for _, v := range ints {
		if err := setInt(v.dst, v.key); err != nil {
			return err
		}
	}

	if raw := os.Getenv("AUTO_MIGRATE"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
		}
		cfg.AutoMigrate = b
	}
	if raw := os.Getenv("QUOTE_RATE_LIMIT_RPS"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid QUOTE_RATE_LIMIT_RPS: %w", err)
		}
		cfg.Quote.RPS = f
	}
	for key, dst := range map[string]*time.Duration{
		"PURCHASE_LOCK_TIMEOUT": &cfg.Purchase.LockTimeout,
		"DB_CONN_MAX_LIFETIME":  &cfg.DB.ConnMaxLifetime,
	} {
		if raw := os.Getenv(key); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Validate rejects settings the services cannot run with.
func (c *AppConfig) Validate() error {
	switch {
	case c.ServerPort == "":
		return errors.New("SERVER_PORT must not be empty")
	case c.DB.Port <= 0:
		return fmt.Errorf("invalid DB_PORT: %d", c.DB.Port)
	case c.Quote.RPS <= 0 || c.Quote.Burst <= 0:
		return errors.New("quote rate limit must be positive")
	case c.Purchase.MaxAttempts <= 0:
		return fmt.Errorf("invalid PURCHASE_MAX_ATTEMPTS: %d", c.Purchase.MaxAttempts)
	case c.Purchase.LockTimeout < 0:
		return fmt.Errorf("invalid PURCHASE_LOCK_TIMEOUT: %s", c.Purchase.LockTimeout)
	case (c.Admin.User == "") != (c.Admin.Password == ""):
		return errors.New("ADMIN_USER and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
