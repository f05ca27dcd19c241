package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/access"
	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/models"
)

// CreateTag creates a tag and grants the creator view in the same
// transaction. Tag names are not unique; any authenticated subject may
// create one.
func (c *Content) CreateTag(subject uuid.UUID, name, description, colour string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "tag name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("tag name must be %d characters or less", MaxNameLength))
	}
	if len(colour) > MaxColourLength {
		return nil, apperror.ValidationFailed("colour",
			fmt.Sprintf("colour must be %d characters or less", MaxColourLength))
	}

	tag := &models.Tag{
		Name:        name,
		Description: description,
		Colour:      colour,
	}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tag).Error; err != nil {
			return err
		}
		return access.Grant(tx, subject, models.ObjectTag, tag.ID, models.CapabilityView)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("tag_id", tag.ID.String()).Str("name", tag.Name).Msg("tag created")
	return tag, nil
}

// ListTags returns the tags the subject holds view on, in store order,
// paginated at the fixed tag page size.
func (c *Content) ListTags(subject uuid.UUID, page int) ([]models.Tag, int64, error) {
	q := access.Scope(c.db.Model(&models.Tag{}), subject, models.ObjectTag, models.CapabilityView)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var tags []models.Tag
	if err := paginate(q, page, TagPageSize).Find(&tags).Error; err != nil {
		return nil, 0, err
	}
	return tags, count, nil
}

// GetTag returns a single tag the subject holds view on.
func (c *Content) GetTag(subject, tagID uuid.UUID) (*models.Tag, error) {
	if err := c.require(subject, models.ObjectTag, tagID, models.CapabilityView, "tag"); err != nil {
		return nil, err
	}
	var tag models.Tag
	if err := c.db.First(&tag, "id = ?", tagID).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag modifies a tag the subject holds view on.
func (c *Content) UpdateTag(subject, tagID uuid.UUID, name, description, colour string) (*models.Tag, error) {
	tag, err := c.GetTag(subject, tagID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("tag name must be %d characters or less", MaxNameLength))
		}
		tag.Name = name
	}
	if len(colour) > MaxColourLength {
		return nil, apperror.ValidationFailed("colour",
			fmt.Sprintf("colour must be %d characters or less", MaxColourLength))
	}
	tag.Description = description
	if colour != "" {
		tag.Colour = colour
	}

	if err := c.db.Save(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag, its join rows and every grant referencing it.
func (c *Content) DeleteTag(subject, tagID uuid.UUID) error {
	if err := c.require(subject, models.ObjectTag, tagID, models.CapabilityView, "tag"); err != nil {
		return err
	}
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM thought_tags WHERE tag_id = ?", tagID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_tags WHERE tag_id = ?", tagID).Error; err != nil {
			return err
		}
		if err := access.RemoveObject(tx, models.ObjectTag, tagID); err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, "id = ?", tagID).Error
	})
}

// viewableTags loads the given tags, requiring view on each. A tag the
// subject cannot see behaves exactly like a missing one.
func (c *Content) viewableTags(tx *gorm.DB, subject uuid.UUID, tagIDs []uuid.UUID) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		ok, err := access.Has(tx, subject, models.ObjectTag, tagID, models.CapabilityView)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.NotFound("tag")
		}
		var tag models.Tag
		if err := tx.First(&tag, "id = ?", tagID).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
