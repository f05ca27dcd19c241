package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/access"
	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/models"
)

const dateLayout = "2006-01-02"

// EntryFilters narrows an entry listing. Malformed dates are skipped
// silently; this permissive policy is deliberate.
type EntryFilters struct {
	Search    string
	StartDate string
	EndDate   string
}

// CreateEntry creates a dated entry and grants the creator view in the
// same transaction. Duplicate dates are allowed.
func (c *Content) CreateEntry(subject uuid.UUID, date string) (*models.Entry, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, apperror.ValidationFailed("date", "date must be formatted YYYY-MM-DD")
	}

	entry := &models.Entry{Date: datatypes.Date(day)}
	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return access.Grant(tx, subject, models.ObjectEntry, entry.ID, models.CapabilityView)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("entry_id", entry.ID.String()).Str("date", date).Msg("entry created")
	return entry, nil
}

// ListEntries returns the subject's viewable entries ordered by date
// descending. Search restricts to entries whose thoughts match a
// full-text predicate; date bounds are inclusive.
func (c *Content) ListEntries(subject uuid.UUID, filters EntryFilters, page int) ([]models.Entry, int64, error) {
	q := access.Scope(c.db.Model(&models.Entry{}), subject, models.ObjectEntry, models.CapabilityView)

	if search := filters.Search; search != "" {
		sub := c.db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Thought{}).
			Select("entry_id")
		if c.db.Dialector.Name() == "postgres" {
			sub = sub.Where("to_tsvector('english', content) @@ plainto_tsquery('english', ?)", search)
		} else {
			sub = sub.Where("content LIKE ?", "%"+search+"%")
		}
		q = q.Where("id IN (?)", sub)
	}

	if filters.StartDate != "" {
		if start, err := time.Parse(dateLayout, filters.StartDate); err == nil {
			q = q.Where("date >= ?", datatypes.Date(start))
		}
	}
	if filters.EndDate != "" {
		if end, err := time.Parse(dateLayout, filters.EndDate); err == nil {
			q = q.Where("date <= ?", datatypes.Date(end))
		}
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.Entry
	if err := paginate(q.Order("date DESC"), page, EntryPageSize).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

// GetEntry returns an entry with its thoughts in ascending creation
// order, the order the journal page is read in.
func (c *Content) GetEntry(subject, entryID uuid.UUID) (*models.Entry, error) {
	if err := c.require(subject, models.ObjectEntry, entryID, models.CapabilityView, "entry"); err != nil {
		return nil, err
	}
	var entry models.Entry
	err := c.db.
		Preload("Thoughts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Thoughts.Tags").
		First(&entry, "id = ?", entryID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes an entry and cascades to its thoughts, including
// their join rows and grants. The cascade is explicit so behaviour does
// not depend on dialect foreign-key enforcement.
func (c *Content) DeleteEntry(subject, entryID uuid.UUID) error {
	if err := c.require(subject, models.ObjectEntry, entryID, models.CapabilityView, "entry"); err != nil {
		return err
	}
	return c.db.Transaction(func(tx *gorm.DB) error {
		var thoughtIDs []uuid.UUID
		if err := tx.Model(&models.Thought{}).
			Where("entry_id = ?", entryID).
			Pluck("id", &thoughtIDs).Error; err != nil {
			return err
		}
		for _, thoughtID := range thoughtIDs {
			if err := tx.Exec("DELETE FROM thought_tags WHERE thought_id = ?", thoughtID).Error; err != nil {
				return err
			}
			if err := access.RemoveObject(tx, models.ObjectThought, thoughtID); err != nil {
				return err
			}
		}
		if err := tx.Where("entry_id = ?", entryID).Delete(&models.Thought{}).Error; err != nil {
			return err
		}
		if err := access.RemoveObject(tx, models.ObjectEntry, entryID); err != nil {
			return err
		}
		return tx.Delete(&models.Entry{}, "id = ?", entryID).Error
	})
}
