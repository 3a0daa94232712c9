package serviceImp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gardencare/pkg/featureflag"
	"gardencare/pkg/insight/service"
	"gardencare/pkg/metrics"
	"gardencare/pkg/rulecontext"
	"gardencare/pkg/rules"
)

const DefaultBudget = 100 * time.Millisecond

type FlagReader interface {
	Enabled(name string) bool
}

type insightSvc struct {
	builder  *rulecontext.Builder
	registry *rules.Registry
	flags    FlagReader
	budget   time.Duration
	log      *zap.Logger
	m        *metrics.Metrics
}

func New(b *rulecontext.Builder, reg *rules.Registry, flags FlagReader, budget time.Duration, log *zap.Logger, m *metrics.Metrics) service.InsightService {
	if reg == nil {
		reg = rules.DefaultRegistry()
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &insightSvc{builder: b, registry: reg, flags: flags, budget: budget, log: log, m: m}
}

// Evaluate runs every diagnostic against the garden. Garden-scoped rules see the
// garden context once; planting-scoped rules run per planting. Going over the
// budget is logged, never cut short.
func (s *insightSvc) Evaluate(ctx context.Context, gardenID uint) (*service.Report, error) {
	if s.flags != nil && !s.flags.Enabled(featureflag.InsightEvaluator) {
		return &service.Report{
			GardenID:       gardenID,
			EvaluationID:   uuid.NewString(),
			EvaluationTime: s.builder.Now(),
			TriggeredRules: []rules.Result{},
		}, nil
	}

	start := time.Now()
	bundle, err := s.builder.ForGarden(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	for _, f := range bundle.Faults {
		s.m.IntegrityFault(f.Entity)
		s.log.Warn("skipping record with bad data",
			zap.Uint("garden_id", gardenID), zap.String("entity", f.Entity),
			zap.Uint("id", f.ID), zap.String("reason", f.Reason))
	}

	results := s.registry.Diagnose(bundle.GardenContext, rules.ScopeGarden)
	for _, pc := range bundle.Plantings {
		results = append(results, s.registry.Diagnose(pc, rules.ScopePlanting)...)
	}
	if results == nil {
		results = []rules.Result{}
	}
	rules.SortResults(results)
	counts := rules.CountBySeverity(results)

	elapsed := time.Since(start)
	s.m.ObserveEvaluation("insight", elapsed)
	if elapsed > s.budget {
		s.m.BudgetExceeded()
		s.log.Warn("insight evaluation over budget",
			zap.Uint("garden_id", gardenID),
			zap.Int("plantings", len(bundle.Plantings)),
			zap.Duration("elapsed", elapsed),
			zap.Duration("budget", s.budget))
	}
	s.m.AddInsights(string(rules.SeverityCritical), counts.Critical)
	s.m.AddInsights(string(rules.SeverityWarning), counts.Warning)
	s.m.AddInsights(string(rules.SeverityInfo), counts.Info)

	return &service.Report{
		GardenID:        bundle.Garden.GardenID,
		GardenName:      bundle.Garden.Name,
		EvaluationID:    uuid.NewString(),
		EvaluationTime:  bundle.GardenContext.Now(),
		TriggeredRules:  results,
		RulesBySeverity: counts,
	}, nil
}
