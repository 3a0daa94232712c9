package serviceImp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gardencare/entities"
	"gardencare/pkg/featureflag"
	"gardencare/pkg/generator/service"
	"gardencare/pkg/metrics"
	"gardencare/pkg/rulecontext"
	"gardencare/pkg/rules"
	taskRepo "gardencare/pkg/task/repository"
)

type FlagReader interface {
	Enabled(name string) bool
}

type generatorSvc struct {
	builder  *rulecontext.Builder
	registry *rules.Registry
	tasks    taskRepo.TaskRepository
	flags    FlagReader
	log      *zap.Logger
	m        *metrics.Metrics
}

func New(b *rulecontext.Builder, reg *rules.Registry, tasks taskRepo.TaskRepository, flags FlagReader, log *zap.Logger, m *metrics.Metrics) service.GeneratorService {
	if reg == nil {
		reg = rules.DefaultRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &generatorSvc{builder: b, registry: reg, tasks: tasks, flags: flags, log: log, m: m}
}

func (s *generatorSvc) disabled() bool {
	return s.flags != nil && !s.flags.Enabled(featureflag.TaskGenerator)
}

func (s *generatorSvc) OnPlantingCreated(ctx context.Context, plantingID uint) (service.Outcome, error) {
	if s.disabled() {
		return service.Outcome{Disabled: true}, nil
	}
	start := time.Now()
	defer func() { s.m.ObserveEvaluation("generator", time.Since(start)) }()

	rc, faults, err := s.builder.ForPlanting(ctx, plantingID)
	if err != nil {
		return service.Outcome{}, err
	}
	s.report(faults)
	if rc == nil {
		return service.Outcome{Faults: faults}, nil
	}
	pid := plantingID
	ds := s.registry.Generate(rc, rules.TriggerPlantingCreated)
	return s.persist(ctx, rules.TriggerPlantingCreated, faults, toTasks(rc.Garden().GardenID, &pid, nil, ds))
}

func (s *generatorSvc) OnSeedBatchCreated(ctx context.Context, batch entities.SeedBatch) (service.Outcome, error) {
	if s.disabled() {
		return service.Outcome{Disabled: true}, nil
	}
	start := time.Now()
	defer func() { s.m.ObserveEvaluation("generator", time.Since(start)) }()

	rc, faults, err := s.builder.ForSeedBatch(ctx, batch)
	if err != nil {
		return service.Outcome{}, err
	}
	s.report(faults)
	if rc == nil {
		return service.Outcome{Faults: faults}, nil
	}
	bid := batch.BatchID
	ds := s.registry.Generate(rc, rules.TriggerSeedBatchCreated)
	return s.persist(ctx, rules.TriggerSeedBatchCreated, faults, toTasks(batch.GardenID, nil, &bid, ds))
}

// OnSensorReading judges the submitted reading against the garden-wide
// context, which carries the strictest thresholds of every species planted there.
func (s *generatorSvc) OnSensorReading(ctx context.Context, r entities.SensorReading) (service.Outcome, error) {
	if s.disabled() {
		return service.Outcome{Disabled: true}, nil
	}
	start := time.Now()
	defer func() { s.m.ObserveEvaluation("generator", time.Since(start)) }()

	rc, faults, err := s.builder.ForReading(ctx, r)
	if err != nil {
		return service.Outcome{}, err
	}
	s.report(faults)
	if rc == nil {
		return service.Outcome{Faults: faults}, nil
	}
	ds := s.registry.Generate(rc, rules.TriggerSensorReading)
	return s.persist(ctx, rules.TriggerSensorReading, faults, toTasks(r.GardenID, nil, nil, ds))
}

func (s *generatorSvc) persist(ctx context.Context, trigger rules.Trigger, faults []rulecontext.Fault, ts []entities.CareTask) (service.Outcome, error) {
	out := service.Outcome{Faults: faults}
	if len(ts) == 0 {
		return out, nil
	}
	created, err := s.tasks.CreateBatch(ctx, ts)
	if err != nil {
		return out, err
	}
	out.Tasks = created
	s.m.AddTasks(string(trigger), len(created))
	s.log.Info("care tasks generated",
		zap.String("trigger", string(trigger)),
		zap.Int("proposed", len(ts)),
		zap.Int("created", len(created)))
	return out, nil
}

func (s *generatorSvc) report(faults []rulecontext.Fault) {
	for _, f := range faults {
		s.m.IntegrityFault(f.Entity)
		s.log.Warn("skipping record with bad data",
			zap.String("entity", f.Entity), zap.Uint("id", f.ID), zap.String("reason", f.Reason))
	}
}

func toTasks(gardenID uint, plantingID, batchID *uint, ds []rules.TaskDescriptor) []entities.CareTask {
	out := make([]entities.CareTask, 0, len(ds))
	for _, d := range ds {
		out = append(out, entities.CareTask{
			GardenID:            gardenID,
			PlantingID:          plantingID,
			SeedBatchID:         batchID,
			Type:                d.Type,
			Title:               d.Title,
			Description:         d.Description,
			DueDate:             d.DueDate,
			Priority:            d.Priority,
			Status:              entities.StatusPending,
			Source:              entities.SourceAutoGenerated,
			IsRecurring:         d.IsRecurring,
			RecurrenceFrequency: d.Frequency,
			RuleID:              d.RuleID,
		})
	}
	return out
}
