package config

import (
	"os"
	"time"
)

type Config struct {
	Environment   string
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	CacheTTL      time.Duration
}

func Load() *Config {
	return &Config{
		Environment:   getEnv("ENVIRONMENT", "dev"),
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "civic_data"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CacheTTL:      getDuration("CLASSIFICATION_CACHE_TTL", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
