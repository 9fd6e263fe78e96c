package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Log        LogConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the key/value connection string used by gorm.
func (c DBConfig) DSN(timezone string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, timezone,
	)
}

// MigrateURL returns the URL understood by the golang-migrate pgx/v5 driver.
func (c DBConfig) MigrateURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SchedulingConfig holds the clinic-wide booking window.
// Times are "HH:MM" wall clock in Timezone.
type SchedulingConfig struct {
	Timezone          string
	WindowStart       string
	WindowEnd         string
	SlotStepMinutes   int
	UseDentistHours   bool
	IdempotencyTTL    time.Duration
	SubmissionTimeout time.Duration
}

type LogConfig struct {
	Level string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Running from plain environment variables is fine.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Scheduling: SchedulingConfig{
			Timezone:          viper.GetString("SCHEDULING_TIMEZONE"),
			WindowStart:       viper.GetString("SCHEDULING_WINDOW_START"),
			WindowEnd:         viper.GetString("SCHEDULING_WINDOW_END"),
			SlotStepMinutes:   viper.GetInt("SCHEDULING_SLOT_STEP_MINUTES"),
			UseDentistHours:   viper.GetBool("SCHEDULING_USE_DENTIST_HOURS"),
			IdempotencyTTL:    viper.GetDuration("SCHEDULING_IDEMPOTENCY_TTL"),
			SubmissionTimeout: viper.GetDuration("SCHEDULING_SUBMISSION_TIMEOUT"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SCHEDULING_TIMEZONE", "Asia/Manila")
	viper.SetDefault("SCHEDULING_WINDOW_START", "08:00")
	viper.SetDefault("SCHEDULING_WINDOW_END", "18:00")
	viper.SetDefault("SCHEDULING_SLOT_STEP_MINUTES", 15)
	viper.SetDefault("SCHEDULING_USE_DENTIST_HOURS", false)
	viper.SetDefault("SCHEDULING_IDEMPOTENCY_TTL", 24*time.Hour)
	viper.SetDefault("SCHEDULING_SUBMISSION_TIMEOUT", 5*time.Second)
	viper.SetDefault("LOG_LEVEL", "info")
}
