package entities

import (
	"errors"
	"time"
)

var ErrInvalidRecurrence = errors.New("recurring tasks need a frequency and only recurring tasks may have one")

type TaskType string

const (
	TaskWatering       TaskType = "watering"
	TaskFertilizing    TaskType = "fertilizing"
	TaskHarvest        TaskType = "harvest"
	TaskSeedViability  TaskType = "seed_viability"
	TaskPestInspection TaskType = "pest_inspection"
	TaskProtection     TaskType = "protection"
	TaskDrainage       TaskType = "drainage"
	TaskPruning        TaskType = "pruning"
	TaskGeneral        TaskType = "general"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskWatering, TaskFertilizing, TaskHarvest, TaskSeedViability, TaskPestInspection,
		TaskProtection, TaskDrainage, TaskPruning, TaskGeneral:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusSkipped   TaskStatus = "skipped"
)

type TaskSource string

const (
	SourceAutoGenerated TaskSource = "auto_generated"
	SourceManual        TaskSource = "manual"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

type CareTask struct {
	TaskID              uint       `gorm:"primaryKey" json:"task_id"`
	GardenID            uint       `gorm:"index" json:"garden_id"`
	PlantingID          *uint      `gorm:"index" json:"planting_id,omitempty"`
	SeedBatchID         *uint      `gorm:"index" json:"seed_batch_id,omitempty"`
	Type                TaskType   `json:"type"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	DueDate             time.Time  `gorm:"index" json:"due_date"`
	Priority            Priority   `json:"priority"` // low|medium|high
	Status              TaskStatus `gorm:"index" json:"status"`
	Source              TaskSource `json:"source"` // auto_generated|manual
	IsRecurring         bool       `json:"is_recurring"`
	RecurrenceFrequency *Frequency `json:"recurrence_frequency,omitempty"`
	// ParentTaskID points back at the occurrence this one was spawned from. It is a
	// plain id so the parent can be deleted on its own.
	ParentTaskID   *uint      `gorm:"index" json:"parent_task_id,omitempty"`
	RuleID         string     `json:"rule_id,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CompletionNote string     `json:"completion_note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces recurring ⇔ frequency present.
func (t *CareTask) Validate() error {
	if t.IsRecurring != (t.RecurrenceFrequency != nil) {
		return ErrInvalidRecurrence
	}
	if t.RecurrenceFrequency != nil && !t.RecurrenceFrequency.Valid() {
		return ErrInvalidRecurrence
	}
	return nil
}
