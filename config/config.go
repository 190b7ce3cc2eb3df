package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Log          LogConfig
	DB           DBConfig
	Redis        RedisConfig
	Scheduling   SchedulingConfig
	Conversation ConversationConfig
}

type AppConfig struct {
	Port     string
	Env      string
	Timezone string
	// CORSOrigins is empty or ["*"] to allow any origin
	CORSOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Timezone string
	// LogSQL switches the gorm logger to Info
	LogSQL bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type SchedulingConfig struct {
	RejectOverlaps     bool
	LockTTL            time.Duration
	LockAcquireTimeout time.Duration
}

type ConversationConfig struct {
	CacheTTL time.Duration
}

// Location resolves the clinic's time zone used for calendar dates and note stamps
func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// DSN builds the postgres connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.Timezone,
	)
}

// URL builds the postgres URL used by the migrator
func (c DBConfig) URL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "America/Bogota")
	v.SetDefault("APP_CORS_ORIGINS", "*")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "clinic_scheduler")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_LOG_SQL", false)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SCHEDULING_REJECT_OVERLAPS", false)
	v.SetDefault("SCHEDULING_LOCK_TTL", "10s")
	v.SetDefault("SCHEDULING_LOCK_ACQUIRE_TIMEOUT", "3s")

	v.SetDefault("CONVERSATION_CACHE_TTL", "30m")
}

// LoadConfig reads an optional .env file, then environment variables. A missing
// file is not an error; every key has a default.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}
	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			Timezone:    v.GetString("APP_TIMEZONE"),
			CORSOrigins: splitList(v.GetString("APP_CORS_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
			LogSQL:   v.GetBool("DB_LOG_SQL"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Scheduling: SchedulingConfig{
			RejectOverlaps:     v.GetBool("SCHEDULING_REJECT_OVERLAPS"),
			LockTTL:            v.GetDuration("SCHEDULING_LOCK_TTL"),
			LockAcquireTimeout: v.GetDuration("SCHEDULING_LOCK_ACQUIRE_TIMEOUT"),
		},
		Conversation: ConversationConfig{
			CacheTTL: v.GetDuration("CONVERSATION_CACHE_TTL"),
		},
	}

	if _, err := config.App.Location(); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", config.App.Timezone, err)
	}
	if config.Scheduling.LockTTL <= 0 {
		return nil, fmt.Errorf("SCHEDULING_LOCK_TTL must be positive")
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
