package repository

import (
	"context"
	"errors"
	"time"

	"gardencare/entities"
)

var ErrNotPending = errors.New("task is not pending")

// FollowUp derives the task to create after done is completed, or nil for none.
type FollowUp func(done entities.CareTask) *entities.CareTask

// Completion is the outcome of completing a task. NextErr is set when the
// follow-up could not be stored; the completion itself still committed.
type Completion struct {
	Task    entities.CareTask
	Next    *entities.CareTask
	NextErr error
}

type TaskRepository interface {
	Create(ctx context.Context, t *entities.CareTask) error
	// CreateBatch stores tasks all-or-nothing, dropping any that duplicate a
	// pending task (or each other). It returns what was inserted.
	CreateBatch(ctx context.Context, ts []entities.CareTask) ([]entities.CareTask, error)
	FindByID(ctx context.Context, id uint) (*entities.CareTask, error)
	ListByGarden(ctx context.Context, gardenID uint, status entities.TaskStatus) ([]entities.CareTask, error)
	Complete(ctx context.Context, id uint, at time.Time, note string, next FollowUp) (*Completion, error)
	Skip(ctx context.Context, id uint, note string) (*entities.CareTask, error)
	// Delete removes one task. Occurrences that point at it keep their parent id.
	Delete(ctx context.Context, id uint) error
}
