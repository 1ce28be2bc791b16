package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Environment      string
	DatabaseURL      string
	BcryptCost       int
	TokenSecretBytes int
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("APP_ENV", "production"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		BcryptCost:       getEnvInt("BCRYPT_COST", 12),
		TokenSecretBytes: getEnvInt("TOKEN_SECRET_BYTES", 32),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
