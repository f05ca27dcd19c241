package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/access"
	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/models"
)

// TaskInput carries the caller-writable task fields.
type TaskInput struct {
	Name        string
	Notes       string
	Snooze      *time.Time
	IsEvergreen bool
	IsCompleted bool
	IsIdeal     bool
	TagIDs      []uuid.UUID
}

// CreateTask creates a task and grants the creator view in the same
// transaction.
func (c *Content) CreateTask(subject uuid.UUID, input TaskInput) (*models.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "task name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("task name must be %d characters or less", MaxNameLength))
	}

	task := &models.Task{
		Name:        name,
		Notes:       input.Notes,
		Snooze:      input.Snooze,
		IsEvergreen: input.IsEvergreen,
		IsCompleted: input.IsCompleted,
		IsIdeal:     input.IsIdeal,
	}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		tags, err := c.viewableTags(tx, subject, input.TagIDs)
		if err != nil {
			return err
		}
		task.Tags = tags
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return access.Grant(tx, subject, models.ObjectTask, task.ID, models.CapabilityView)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("task_id", task.ID.String()).Str("name", task.Name).Msg("task created")
	return task, nil
}

// ListActiveTasks returns the subject's viewable tasks that are not
// snoozed into the future, oldest touched first, capped at the active
// task limit.
func (c *Content) ListActiveTasks(subject uuid.UUID) ([]models.Task, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var tasks []models.Task
	err := access.Scope(c.db.Model(&models.Task{}), subject, models.ObjectTask, models.CapabilityView).
		Where("snooze IS NULL OR snooze <= ?", today).
		Order("updated_at ASC").
		Limit(ActiveTaskLimit).
		Preload("Tags").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task the subject holds view on.
func (c *Content) GetTask(subject, taskID uuid.UUID) (*models.Task, error) {
	if err := c.require(subject, models.ObjectTask, taskID, models.CapabilityView, "task"); err != nil {
		return nil, err
	}
	var task models.Task
	if err := c.db.Preload("Tags").First(&task, "id = ?", taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask rewrites the caller-writable fields of a task the subject
// holds view on.
func (c *Content) UpdateTask(subject, taskID uuid.UUID, input TaskInput) (*models.Task, error) {
	task, err := c.GetTask(subject, taskID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "task name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("task name must be %d characters or less", MaxNameLength))
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		tags, err := c.viewableTags(tx, subject, input.TagIDs)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":         name,
			"notes":        input.Notes,
			"snooze":       input.Snooze,
			"is_evergreen": input.IsEvergreen,
			"is_completed": input.IsCompleted,
			"is_ideal":     input.IsIdeal,
		}
		if err := tx.Model(task).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(task).Association("Tags").Replace(tags); err != nil {
			return err
		}
		task.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task, its join rows and grants.
func (c *Content) DeleteTask(subject, taskID uuid.UUID) error {
	if err := c.require(subject, models.ObjectTask, taskID, models.CapabilityView, "task"); err != nil {
		return err
	}
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", taskID).Error; err != nil {
			return err
		}
		if err := access.RemoveObject(tx, models.ObjectTask, taskID); err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", taskID).Error
	})
}
