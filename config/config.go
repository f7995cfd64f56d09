package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("No .env file found, using environment variables")
	}
}

func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// MissingEnv returns the names in keys that are unset or empty.
func MissingEnv(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// MustHaveEnv aborts startup unless every key is set. Called from main so a
// misconfigured deployment fails immediately instead of on the first request
// that needs the variable.
func MustHaveEnv(keys ...string) {
	if missing := MissingEnv(keys...); len(missing) > 0 {
		logger.Fatal().Strs("keys", missing).Msg("Required environment variables not set")
	}
}
