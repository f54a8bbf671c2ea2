package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Parking   ParkingConfig
	Detection DetectionConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

// ParkingConfig mengatur aturan booking dan sweep
type ParkingConfig struct {
	MinBookingDurationMinutes int
	BookingExpiryMinutes      int
	ExpirySweepSpec           string
}

type DetectionConfig struct {
	// Reports captured longer ago than this are rejected; 0 disables the check.
	StaleReportSeconds int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("MIN_BOOKING_DURATION_MINUTES", 30)
	viper.SetDefault("BOOKING_EXPIRY_MINUTES", 15)
	viper.SetDefault("EXPIRY_SWEEP_SPEC", "@every 1m")
	viper.SetDefault("DETECTION_STALE_REPORT_SECONDS", 300)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Parking: ParkingConfig{
			MinBookingDurationMinutes: viper.GetInt("MIN_BOOKING_DURATION_MINUTES"),
			BookingExpiryMinutes:      viper.GetInt("BOOKING_EXPIRY_MINUTES"),
			ExpirySweepSpec:           viper.GetString("EXPIRY_SWEEP_SPEC"),
		},
		Detection: DetectionConfig{
			StaleReportSeconds: viper.GetInt("DETECTION_STALE_REPORT_SECONDS"),
		},
	}

	return config, nil
}
