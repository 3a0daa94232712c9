package service

import (
	"context"

	"gardencare/entities"
	"gardencare/pkg/rulecontext"
)

// Outcome is what one triggering event produced. Disabled is set when the
// task_generator flag was off and nothing was evaluated.
type Outcome struct {
	Tasks    []entities.CareTask
	Faults   []rulecontext.Fault
	Disabled bool
}

func (o Outcome) TaskIDs() []uint {
	ids := make([]uint, 0, len(o.Tasks))
	for _, t := range o.Tasks {
		ids = append(ids, t.TaskID)
	}
	return ids
}

type GeneratorService interface {
	OnPlantingCreated(ctx context.Context, plantingID uint) (Outcome, error)
	OnSeedBatchCreated(ctx context.Context, batch entities.SeedBatch) (Outcome, error)
	OnSensorReading(ctx context.Context, r entities.SensorReading) (Outcome, error)
}
