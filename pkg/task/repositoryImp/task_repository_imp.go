package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gardencare/entities"
	"gardencare/pkg/task/repository"
)

type taskRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TaskRepository { return &taskRepo{db} }

func notFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("task %d: %w", id, entities.ErrNotFound)
	}
	return err
}

func (r *taskRepo) Create(ctx context.Context, t *entities.CareTask) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

type dedupKey struct {
	garden   uint
	planting uint
	batch    uint
	typ      entities.TaskType
	due      int64
}

func keyOf(t entities.CareTask) dedupKey {
	k := dedupKey{garden: t.GardenID, typ: t.Type, due: t.DueDate.Unix()}
	if t.PlantingID != nil {
		k.planting = *t.PlantingID
	}
	if t.SeedBatchID != nil {
		k.batch = *t.SeedBatchID
	}
	return k
}

func optionalID(q *gorm.DB, column string, id *uint) *gorm.DB {
	if id == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *id)
}

func (r *taskRepo) CreateBatch(ctx context.Context, ts []entities.CareTask) ([]entities.CareTask, error) {
	var inserted []entities.CareTask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := map[dedupKey]struct{}{}
		for _, t := range ts {
			if err := t.Validate(); err != nil {
				return err
			}
			k := keyOf(t)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}

			q := tx.Model(&entities.CareTask{}).
				Where("garden_id = ? AND type = ? AND due_date = ? AND status = ?", t.GardenID, t.Type, t.DueDate, entities.StatusPending)
			q = optionalID(q, "planting_id", t.PlantingID)
			q = optionalID(q, "seed_batch_id", t.SeedBatchID)
			var n int64
			if err := q.Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
			inserted = append(inserted, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (r *taskRepo) FindByID(ctx context.Context, id uint) (*entities.CareTask, error) {
	var t entities.CareTask
	if err := r.db.WithContext(ctx).Where("task_id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err, id)
	}
	return &t, nil
}

func (r *taskRepo) ListByGarden(ctx context.Context, gardenID uint, status entities.TaskStatus) ([]entities.CareTask, error) {
	var out []entities.CareTask
	q := r.db.WithContext(ctx).Where("garden_id = ?", gardenID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("due_date ASC, task_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Complete marks the task done and, inside the same transaction, stores the
// follow-up behind a savepoint so a failed insert rolls back only itself.
func (r *taskRepo) Complete(ctx context.Context, id uint, at time.Time, note string, next repository.FollowUp) (*repository.Completion, error) {
	out := &repository.Completion{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t entities.CareTask
		if err := tx.Where("task_id = ?", id).First(&t).Error; err != nil {
			return notFound(err, id)
		}
		if t.Status != entities.StatusPending {
			return fmt.Errorf("task %d is %s: %w", id, t.Status, repository.ErrNotPending)
		}
		t.Status = entities.StatusCompleted
		t.CompletedAt = &at
		t.CompletionNote = note
		if err := tx.Save(&t).Error; err != nil {
			return err
		}
		out.Task = t

		if next == nil {
			return nil
		}
		n := next(t)
		if n == nil {
			return nil
		}
		if err := tx.Transaction(func(sp *gorm.DB) error {
			if err := n.Validate(); err != nil {
				return err
			}
			return sp.Create(n).Error
		}); err != nil {
			out.NextErr = err
			return nil
		}
		out.Next = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRepo) Skip(ctx context.Context, id uint, note string) (*entities.CareTask, error) {
	var t entities.CareTask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).First(&t).Error; err != nil {
			return notFound(err, id)
		}
		if t.Status != entities.StatusPending {
			return fmt.Errorf("task %d is %s: %w", id, t.Status, repository.ErrNotPending)
		}
		t.Status = entities.StatusSkipped
		t.CompletionNote = note
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("task_id = ?", id).Delete(&entities.CareTask{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %d: %w", id, entities.ErrNotFound)
	}
	return nil
}
