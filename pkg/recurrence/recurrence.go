// Package recurrence spawns the next occurrence of a recurring task when the
// current one is completed.
package recurrence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gardencare/entities"
	"gardencare/pkg/metrics"
	taskRepo "gardencare/pkg/task/repository"
)

// Interval is the gap in days between occurrences.
func Interval(f entities.Frequency) (int, bool) {
	switch f {
	case entities.FrequencyDaily:
		return 1, true
	case entities.FrequencyWeekly:
		return 7, true
	case entities.FrequencyBiweekly:
		return 14, true
	case entities.FrequencyMonthly:
		return 30, true
	}
	return 0, false
}

// NextOccurrence returns the pending task that follows done, or nil when done
// does not recur.
func NextOccurrence(done entities.CareTask) *entities.CareTask {
	if !done.IsRecurring || done.RecurrenceFrequency == nil {
		return nil
	}
	days, ok := Interval(*done.RecurrenceFrequency)
	if !ok {
		return nil
	}
	freq := *done.RecurrenceFrequency
	parent := done.TaskID
	next := &entities.CareTask{
		GardenID:            done.GardenID,
		Type:                done.Type,
		Title:               done.Title,
		Description:         done.Description,
		DueDate:             done.DueDate.AddDate(0, 0, days),
		Priority:            done.Priority,
		Status:              entities.StatusPending,
		Source:              done.Source,
		IsRecurring:         true,
		RecurrenceFrequency: &freq,
		ParentTaskID:        &parent,
		RuleID:              done.RuleID,
	}
	if done.PlantingID != nil {
		id := *done.PlantingID
		next.PlantingID = &id
	}
	if done.SeedBatchID != nil {
		id := *done.SeedBatchID
		next.SeedBatchID = &id
	}
	return next
}

// Result is returned to the caller of a completion. RecurrenceFailed means the
// task was completed but its next occurrence is missing.
type Result struct {
	Task             entities.CareTask  `json:"task"`
	NextTask         *entities.CareTask `json:"next_task,omitempty"`
	RecurrenceFailed bool               `json:"recurrence_failed"`
}

type Engine struct {
	tasks taskRepo.TaskRepository
	log   *zap.Logger
	m     *metrics.Metrics
}

func NewEngine(tasks taskRepo.TaskRepository, log *zap.Logger, m *metrics.Metrics) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{tasks: tasks, log: log, m: m}
}

// Complete marks id completed at the given time and stores its next occurrence
// in the same transaction.
func (e *Engine) Complete(ctx context.Context, id uint, at time.Time, note string) (*Result, error) {
	c, err := e.tasks.Complete(ctx, id, at, note, NextOccurrence)
	if err != nil {
		return nil, err
	}
	res := &Result{Task: c.Task, NextTask: c.Next}
	if c.NextErr != nil {
		res.RecurrenceFailed = true
		e.m.RecurrenceFailed()
		e.log.Warn("next occurrence not created",
			zap.Uint("task_id", id), zap.Uint("garden_id", c.Task.GardenID), zap.Error(c.NextErr))
	}
	return res, nil
}
