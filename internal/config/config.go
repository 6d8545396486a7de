// internal/config/config.go
package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EngineConfig holds the analytics engine knobs.
type EngineConfig struct {
	// MiningBudget caps one pattern-mining run's wall clock.
	MiningBudget time.Duration
	// ExcludedMarkets lists non-recurring event markets to keep out of
	// pattern statistics.
	ExcludedMarkets []string
	// DefaultBatchSize and DefaultShopCapacity back the allocation
	// endpoints when the caller leaves them unset.
	DefaultBatchSize    int
	DefaultShopCapacity int
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	PatternTTLSeconds int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "ovenpilot")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("ENGINE_MINING_BUDGET_MS", 2000)
		viper.SetDefault("ENGINE_EXCLUDED_MARKETS", []string{})
		viper.SetDefault("ENGINE_DEFAULT_BATCH_SIZE", 12)
		viper.SetDefault("ENGINE_DEFAULT_SHOP_CAPACITY", 120)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PATTERN_TTL_SECONDS", 300)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Engine: EngineConfig{
				MiningBudget:        time.Duration(viper.GetInt("ENGINE_MINING_BUDGET_MS")) * time.Millisecond,
				ExcludedMarkets:     viper.GetStringSlice("ENGINE_EXCLUDED_MARKETS"),
				DefaultBatchSize:    viper.GetInt("ENGINE_DEFAULT_BATCH_SIZE"),
				DefaultShopCapacity: viper.GetInt("ENGINE_DEFAULT_SHOP_CAPACITY"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				PatternTTLSeconds: viper.GetInt("CACHE_PATTERN_TTL_SECONDS"),
			},
		}
	})

	return instance
}
