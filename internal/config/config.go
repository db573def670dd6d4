package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the CLI defaults. Flags override these; the engine itself
// takes its LanguageConfig per call and reads no environment.
type Config struct {
	Dialect     string
	Cases       []string
	Genders     []string
	PluralCount int
	CatalogPath string
	WorkerCount int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Dialect:     getEnv("LNGCHECK_DIALECT", "openttd"),
		Cases:       getEnvList("LNGCHECK_CASES"),
		Genders:     getEnvList("LNGCHECK_GENDERS"),
		PluralCount: getEnvInt("LNGCHECK_PLURAL_COUNT", 2),
		CatalogPath: getEnv("LNGCHECK_CATALOG", ""),
		WorkerCount: getEnvInt("LNGCHECK_WORKER_COUNT", 8),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
