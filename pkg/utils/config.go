package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Email    EmailConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host             string
	Port             string
	Name             string
	User             string
	Password         string
	MaxConns         int32
	StatementTimeout time.Duration
	AutoMigrate      bool
}

type BookingConfig struct {
	AdminFee        float64
	PendingTTL      time.Duration
	CancelWindow    time.Duration
	CodeMaxAttempts int
	SweepSchedule   string
	SweepBatchSize  int
	SweepWorkers    int
}

type EmailConfig struct {
	From    string
	Enabled bool
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "kos-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_STATEMENT_TIMEOUT", "10s")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("BOOKING_ADMIN_FEE", 5000)
	viper.SetDefault("BOOKING_PENDING_TTL", "24h")
	viper.SetDefault("BOOKING_CANCEL_WINDOW", "24h")
	viper.SetDefault("BOOKING_CODE_MAX_ATTEMPTS", 5)
	viper.SetDefault("SWEEP_SCHEDULE", "*/5 * * * *")
	viper.SetDefault("SWEEP_BATCH_SIZE", 500)
	viper.SetDefault("SWEEP_WORKERS", 4)
	viper.SetDefault("EMAIL_FROM", "no-reply@kos-booking.local")
	viper.SetDefault("EMAIL_ENABLED", false)

	viper.AutomaticEnv()

	// .env is optional when everything comes from the environment
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !isNotExist(err) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:             viper.GetString("DB_HOST"),
			Port:             viper.GetString("DB_PORT"),
			Name:             viper.GetString("DB_NAME"),
			User:             viper.GetString("DB_USER"),
			Password:         viper.GetString("DB_PASS"),
			MaxConns:         viper.GetInt32("DB_MAX_CONNS"),
			StatementTimeout: viper.GetDuration("DB_STATEMENT_TIMEOUT"),
			AutoMigrate:      viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Booking: BookingConfig{
			AdminFee:        viper.GetFloat64("BOOKING_ADMIN_FEE"),
			PendingTTL:      viper.GetDuration("BOOKING_PENDING_TTL"),
			CancelWindow:    viper.GetDuration("BOOKING_CANCEL_WINDOW"),
			CodeMaxAttempts: viper.GetInt("BOOKING_CODE_MAX_ATTEMPTS"),
			SweepSchedule:   viper.GetString("SWEEP_SCHEDULE"),
			SweepBatchSize:  viper.GetInt("SWEEP_BATCH_SIZE"),
			SweepWorkers:    viper.GetInt("SWEEP_WORKERS"),
		},
		Email: EmailConfig{
			From:    viper.GetString("EMAIL_FROM"),
			Enabled: viper.GetBool("EMAIL_ENABLED"),
		},
	}

	return config, nil
}
