package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	DatabaseURL              string
	AutoMigrate              bool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
	AuthJWTSecret            string
	AuthIssuer               string
	DefaultGameSlug          string
	DefaultMaxSquares        int
	HomeTeam                 string
	AwayTeam                 string
	GinMode                  string
	ReadTimeoutSeconds       int
	WriteTimeoutSeconds      int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		AuthIssuer:               "party-auth",
		DefaultGameSlug:          "main",
		DefaultMaxSquares:        5,
		HomeTeam:                 "Seahawks",
		AwayTeam:                 "Patriots",
		GinMode:                  "release",
		ReadTimeoutSeconds:       15,
		WriteTimeoutSeconds:      15,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := os.Getenv("AUTO_MIGRATE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.AutoMigrate = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	if raw := os.Getenv("AUTH_JWT_SECRET"); raw != "" {
		cfg.AuthJWTSecret = raw
	}
	if raw := os.Getenv("AUTH_ISSUER"); raw != "" {
		cfg.AuthIssuer = raw
	}
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_GAME_SLUG")); raw != "" {
		cfg.DefaultGameSlug = raw
	}
	if raw := os.Getenv("DEFAULT_MAX_SQUARES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 && value <= 100 {
			cfg.DefaultMaxSquares = value
		}
	}
	if raw := strings.TrimSpace(os.Getenv("HOME_TEAM")); raw != "" {
		cfg.HomeTeam = raw
	}
	if raw := strings.TrimSpace(os.Getenv("AWAY_TEAM")); raw != "" {
		cfg.AwayTeam = raw
	}
	if raw := os.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}
	if raw := os.Getenv("READ_TIMEOUT_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ReadTimeoutSeconds = value
		}
	}
	if raw := os.Getenv("WRITE_TIMEOUT_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.WriteTimeoutSeconds = value
		}
	}
	return cfg
}
