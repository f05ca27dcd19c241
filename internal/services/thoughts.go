package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/access"
	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/models"
)

// ThoughtFilters narrows the flat thought listing. Malformed dates are
// skipped silently, matching the entry listing policy.
type ThoughtFilters struct {
	StartDate string
	EndDate   string
	TagIDs    []uuid.UUID
}

// AddThought appends a thought to an entry the subject holds view on.
// The creator is granted view, change and delete on the new thought in
// the creating transaction; thoughts are more strictly owned than the
// entries that hold them. Creation never triggers enrichment, only
// qualifying edits do.
func (c *Content) AddThought(subject, entryID uuid.UUID, content string, tagIDs []uuid.UUID) (*models.Thought, error) {
	if err := c.require(subject, models.ObjectEntry, entryID, models.CapabilityView, "entry"); err != nil {
		return nil, err
	}

	thought := &models.Thought{
		EntryID: entryID,
		Content: content,
	}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		tags, err := c.viewableTags(tx, subject, tagIDs)
		if err != nil {
			return err
		}
		thought.Tags = tags
		if err := tx.Create(thought).Error; err != nil {
			return err
		}
		return access.Grant(tx, subject, models.ObjectThought, thought.ID,
			models.CapabilityView, models.CapabilityChange, models.CapabilityDelete)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("thought_id", thought.ID.String()).
		Str("entry_id", entryID.String()).
		Msg("thought added")
	return thought, nil
}

// EditThought rewrites a thought's content through its entry. The entry
// must be viewable to resolve the thought at all, and the thought itself
// must carry change for this subject.
func (c *Content) EditThought(subject, entryID, thoughtID uuid.UUID, content string, tagIDs *[]uuid.UUID) (*models.Thought, error) {
	if err := c.require(subject, models.ObjectEntry, entryID, models.CapabilityView, "entry"); err != nil {
		return nil, err
	}
	thought, err := c.thoughtInEntry(entryID, thoughtID)
	if err != nil {
		return nil, err
	}
	return c.applyThoughtEdit(subject, thought, content, tagIDs)
}

// DeleteThought removes a thought through its entry. Requires view on the
// entry and delete on the thought.
func (c *Content) DeleteThought(subject, entryID, thoughtID uuid.UUID) error {
	if err := c.require(subject, models.ObjectEntry, entryID, models.CapabilityView, "entry"); err != nil {
		return err
	}
	if _, err := c.thoughtInEntry(entryID, thoughtID); err != nil {
		return err
	}
	return c.removeThought(subject, thoughtID)
}

// ListThoughts returns the subject's viewable thoughts newest first,
// capped at the flat-collection page size.
func (c *Content) ListThoughts(subject uuid.UUID, filters ThoughtFilters, page int) ([]models.Thought, int64, error) {
	q := access.Scope(c.db.Model(&models.Thought{}), subject, models.ObjectThought, models.CapabilityView)

	if filters.StartDate != "" {
		if start, err := time.Parse(dateLayout, filters.StartDate); err == nil {
			q = q.Where("created_at >= ?", start)
		}
	}
	if filters.EndDate != "" {
		if end, err := time.Parse(dateLayout, filters.EndDate); err == nil {
			// The upper bound covers the whole end date, not just its midnight.
			q = q.Where("created_at < ?", end.AddDate(0, 0, 1))
		}
	}
	if len(filters.TagIDs) > 0 {
		q = q.Where("id IN (SELECT thought_id FROM thought_tags WHERE tag_id IN ?)", filters.TagIDs)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var thoughts []models.Thought
	err := paginate(q.Order("created_at DESC"), page, ThoughtPageSize).
		Preload("Tags").
		Find(&thoughts).Error
	if err != nil {
		return nil, 0, err
	}
	return thoughts, count, nil
}

// GetThought returns a single thought the subject holds view on.
func (c *Content) GetThought(subject, thoughtID uuid.UUID) (*models.Thought, error) {
	if err := c.require(subject, models.ObjectThought, thoughtID, models.CapabilityView, "thought"); err != nil {
		return nil, err
	}
	var thought models.Thought
	if err := c.db.Preload("Tags").First(&thought, "id = ?", thoughtID).Error; err != nil {
		return nil, err
	}
	return &thought, nil
}

// UpdateThought rewrites a thought addressed directly in the flat
// collection. Requires change on the thought.
func (c *Content) UpdateThought(subject, thoughtID uuid.UUID, content string, tagIDs *[]uuid.UUID) (*models.Thought, error) {
	var thought models.Thought
	err := c.db.First(&thought, "id = ?", thoughtID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("thought")
	}
	if err != nil {
		return nil, err
	}
	return c.applyThoughtEdit(subject, &thought, content, tagIDs)
}

// RemoveThought deletes a thought addressed directly in the flat
// collection. Requires delete on the thought.
func (c *Content) RemoveThought(subject, thoughtID uuid.UUID) error {
	var thought models.Thought
	err := c.db.First(&thought, "id = ?", thoughtID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("thought")
	}
	if err != nil {
		return err
	}
	return c.removeThought(subject, thoughtID)
}

// thoughtInEntry resolves a thought scoped to its entry; a thought that
// exists under a different entry is treated as absent.
func (c *Content) thoughtInEntry(entryID, thoughtID uuid.UUID) (*models.Thought, error) {
	var thought models.Thought
	err := c.db.First(&thought, "id = ? AND entry_id = ?", thoughtID, entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("thought")
	}
	if err != nil {
		return nil, err
	}
	return &thought, nil
}

// applyThoughtEdit commits the content/tag mutation, then enqueues
// enrichment when the new content is long enough. Enqueue happens
// strictly after commit so a failed transaction never produces jobs.
func (c *Content) applyThoughtEdit(subject uuid.UUID, thought *models.Thought, content string, tagIDs *[]uuid.UUID) (*models.Thought, error) {
	ok, err := access.Has(c.db, subject, models.ObjectThought, thought.ID, models.CapabilityChange)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("thought")
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		thought.Content = content
		if err := tx.Model(thought).Update("content", content).Error; err != nil {
			return err
		}
		if tagIDs != nil {
			tags, err := c.viewableTags(tx, subject, *tagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(thought).Association("Tags").Replace(tags); err != nil {
				return err
			}
			thought.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.maybeEnqueueEnrichment(thought.ID, content)
	return thought, nil
}

// removeThought performs the delete-capability check and the permanent
// removal of a thought, its join rows and grants.
func (c *Content) removeThought(subject, thoughtID uuid.UUID) error {
	ok, err := access.Has(c.db, subject, models.ObjectThought, thoughtID, models.CapabilityDelete)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("thought")
	}
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM thought_tags WHERE thought_id = ?", thoughtID).Error; err != nil {
			return err
		}
		if err := access.RemoveObject(tx, models.ObjectThought, thoughtID); err != nil {
			return err
		}
		return tx.Delete(&models.Thought{}, "id = ?", thoughtID).Error
	})
}
