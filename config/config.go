package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	Timezone           string
	DBPath             string
	LogLevel           string
	LogFormat          string
	EvalBudget         time.Duration
	ObservationWindow  time.Duration
	ThresholdsPath     string
	VarietyCatalogPath string

	// Initial flag values, written only when the flag has no stored row yet.
	TaskGeneratorEnabled    bool
	InsightEvaluatorEnabled bool
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function. Bad numbers and booleans
// fall back to their defaults.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	posInt := func(k string, def int) int {
		raw := getenv(k)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			log.Printf("[cfg] %s=%q is not a positive integer, using %d", k, raw, def)
			return def
		}
		return v
	}
	boolean := func(k string, def bool) bool {
		raw := getenv(k)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			log.Printf("[cfg] %s=%q is not a boolean, using %t", k, raw, def)
			return def
		}
		return v
	}

	cfg := AppConfig{
		Port:                    get("PORT", "8080"),
		Timezone:                get("TZ", "UTC"),
		DBPath:                  get("DB_PATH", "gardencare.db"),
		LogLevel:                get("LOG_LEVEL", "info"),
		LogFormat:               get("LOG_FORMAT", "json"),
		EvalBudget:              time.Duration(posInt("EVAL_BUDGET_MS", 100)) * time.Millisecond,
		ObservationWindow:       time.Duration(posInt("OBSERVATION_WINDOW_DAYS", 30)) * 24 * time.Hour,
		ThresholdsPath:          get("THRESHOLDS_PATH", ""),
		VarietyCatalogPath:      get("VARIETY_CATALOG_PATH", ""),
		TaskGeneratorEnabled:    boolean("TASK_GENERATOR_ENABLED", true),
		InsightEvaluatorEnabled: boolean("INSIGHT_EVALUATOR_ENABLED", true),
	}
	log.Printf("[cfg] %+v", cfg)
	return cfg
}
