package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  int    `mapstructure:"SERVER_PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`

	DatabaseDbPath       string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseCacheAddress string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DATABASE_CACHE_PORT"`

	FarmAPIBaseURL string        `mapstructure:"FARM_API_BASE_URL"`
	FarmAPITimeout time.Duration `mapstructure:"FARM_API_TIMEOUT"`

	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`

	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`
}

func InitConfig() (Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DATABASE_DB_PATH", "data/herdview.db")
	v.SetDefault("DATABASE_CACHE_ADDRESS", "localhost")
	v.SetDefault("DATABASE_CACHE_PORT", 6379)
	v.SetDefault("FARM_API_BASE_URL", "http://localhost:9000/api/v1")
	v.SetDefault("FARM_API_TIMEOUT", 15*time.Second)
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine, env and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	return config, nil
}
