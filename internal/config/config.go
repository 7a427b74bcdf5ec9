package config

import (
	"log/slog"
	"os"
)

const devSecret = "dev-secret-change-in-production"

type Config struct {
	Port         string
	Env          string
	MongoURI     string
	DatabaseName string
	JWTSecret    string
}

func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "3000"),
		Env:          getEnv("ENV", "development"),
		MongoURI:     getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		DatabaseName: getEnv("MONGODB_DATABASE", "todopad"),
		JWTSecret:    getEnv("JWT_SECRET", devSecret),
	}

	if cfg.Env == "production" && cfg.JWTSecret == devSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
