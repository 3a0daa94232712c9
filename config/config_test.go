package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg := FromEnv(env(nil))
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gardencare.db", cfg.DBPath)
	assert.Equal(t, 100*time.Millisecond, cfg.EvalBudget)
	assert.Equal(t, 30*24*time.Hour, cfg.ObservationWindow)
	assert.True(t, cfg.TaskGeneratorEnabled)
	assert.True(t, cfg.InsightEvaluatorEnabled)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestOverrides(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		"PORT":                      "9000",
		"EVAL_BUDGET_MS":            "250",
		"OBSERVATION_WINDOW_DAYS":   "14",
		"THRESHOLDS_PATH":           "/etc/gardencare/thresholds.yaml",
		"TASK_GENERATOR_ENABLED":    "false",
		"INSIGHT_EVALUATOR_ENABLED": "0",
	}))
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.EvalBudget)
	assert.Equal(t, 14*24*time.Hour, cfg.ObservationWindow)
	assert.Equal(t, "/etc/gardencare/thresholds.yaml", cfg.ThresholdsPath)
	assert.False(t, cfg.TaskGeneratorEnabled)
	assert.False(t, cfg.InsightEvaluatorEnabled)
}

func TestBadValuesFallBack(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		"EVAL_BUDGET_MS":          "fast",
		"OBSERVATION_WINDOW_DAYS": "-2",
		"TASK_GENERATOR_ENABLED":  "maybe",
	}))
	assert.Equal(t, 100*time.Millisecond, cfg.EvalBudget)
	assert.Equal(t, 30*24*time.Hour, cfg.ObservationWindow)
	assert.True(t, cfg.TaskGeneratorEnabled)
}
