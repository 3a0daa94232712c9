package service

import (
	"context"
	"time"

	"gardencare/pkg/rules"
)

// Report is the on-demand diagnosis of one garden. It is never stored.
type Report struct {
	GardenID        uint                 `json:"garden_id"`
	GardenName      string               `json:"garden_name"`
	EvaluationID    string               `json:"evaluation_id"`
	EvaluationTime  time.Time            `json:"evaluation_time"`
	TriggeredRules  []rules.Result       `json:"triggered_rules"`
	RulesBySeverity rules.SeverityCounts `json:"rules_by_severity"`
}

type InsightService interface {
	Evaluate(ctx context.Context, gardenID uint) (*Report, error)
}
