package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Slots    SlotConfig
}

type ServerConfig struct {
	Port int
	Env  string // development, production
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	MigrationsDir   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// SlotConfig holds defaults applied when a (slot, mode) counter is created lazily.
type SlotConfig struct {
	PhysicalCapacity       int
	HybridCapacity         int
	TablesPerSlot          int
	DurationMinutes        int
	SuggestionHorizonHours int
}

// Load reads configuration from .env (if present) and environment variables.
func Load() (*Config, error) {
	// .env is optional; real deployments rely on the environment
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 7070)
	viper.SetDefault("SERVER_ENV", "development")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "event_networking")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 30)
	viper.SetDefault("DB_MIGRATIONS_DIR", "migrations")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("JWT_EXPIRY_HOURS", 72)

	viper.SetDefault("SLOT_PHYSICAL_CAPACITY", 20)
	viper.SetDefault("SLOT_HYBRID_CAPACITY", 10)
	viper.SetDefault("SLOT_TABLES", 30)
	viper.SetDefault("SLOT_DURATION_MINUTES", 20)
	viper.SetDefault("SUGGESTION_HORIZON_HOURS", 48)

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSL_MODE"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: viper.GetInt("DB_CONN_MAX_LIFETIME"),
			MigrationsDir:   viper.GetString("DB_MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Slots: SlotConfig{
			PhysicalCapacity:       viper.GetInt("SLOT_PHYSICAL_CAPACITY"),
			HybridCapacity:         viper.GetInt("SLOT_HYBRID_CAPACITY"),
			TablesPerSlot:          viper.GetInt("SLOT_TABLES"),
			DurationMinutes:        viper.GetInt("SLOT_DURATION_MINUTES"),
			SuggestionHorizonHours: viper.GetInt("SUGGESTION_HORIZON_HOURS"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
