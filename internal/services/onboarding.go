package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/access"
	"github.com/continuum-journal/continuum/internal/enrichment"
	"github.com/continuum-journal/continuum/internal/models"
)

const (
	onboardingTagName        = "onboarding"
	onboardingTagDescription = "Tag for onboarding thoughts."
	onboardingTagColour      = "blue"

	welcomeThoughtText = "Welcome to Continuum! This is a thought, it represents a " +
		"single idea or piece of information. Click this text to edit or add more."
	yesterdayThoughtText = "Thoughts in previous entries cannot be edited. This is " +
		"deliberate, it tracks how your thoughts evolve over time!"
)

// HasOnboarded reports whether the subject already holds a viewable
// onboarding tag, the marker that starter content was seeded.
func (c *Content) HasOnboarded(subject uuid.UUID) (bool, error) {
	var count int64
	err := access.Scope(c.db.Model(&models.Tag{}), subject, models.ObjectTag, models.CapabilityView).
		Where("name = ?", onboardingTagName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// OnboardUser backfills the provider profile and seeds the starter
// content in a single transaction: the onboarding tag, an entry for
// today and one for yesterday, each holding one tagged welcome thought.
// Enrichment for the seeded thoughts is enqueued only after the
// transaction commits.
func (c *Content) OnboardUser(user *models.User, email string) error {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	var thoughtIDs []uuid.UUID
	err := c.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"username": email,
			"email":    email,
		}
		if err := tx.Model(user).Updates(updates).Error; err != nil {
			return err
		}

		tag := &models.Tag{
			Name:        onboardingTagName,
			Description: onboardingTagDescription,
			Colour:      onboardingTagColour,
		}
		if err := tx.Create(tag).Error; err != nil {
			return err
		}
		if err := access.Grant(tx, user.ID, models.ObjectTag, tag.ID, models.CapabilityView); err != nil {
			return err
		}

		seeds := []struct {
			date    time.Time
			content string
		}{
			{today, welcomeThoughtText},
			{yesterday, yesterdayThoughtText},
		}
		for _, seed := range seeds {
			entry := &models.Entry{Date: datatypes.Date(seed.date)}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
			if err := access.Grant(tx, user.ID, models.ObjectEntry, entry.ID, models.CapabilityView); err != nil {
				return err
			}

			thought := &models.Thought{
				EntryID: entry.ID,
				Content: seed.content,
				Tags:    []models.Tag{*tag},
			}
			if err := tx.Create(thought).Error; err != nil {
				return err
			}
			if err := access.Grant(tx, user.ID, models.ObjectThought, thought.ID,
				models.CapabilityView, models.CapabilityChange, models.CapabilityDelete); err != nil {
				return err
			}
			thoughtIDs = append(thoughtIDs, thought.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	user.Username = email
	user.Email = email

	for _, thoughtID := range thoughtIDs {
		for _, kind := range []enrichment.JobKind{enrichment.JobExtractMood, enrichment.JobExtractActions} {
			if err := c.queue.Enqueue(enrichment.Job{ThoughtID: thoughtID, Kind: kind}); err != nil {
				c.log.Warn().
					Err(err).
					Str("thought_id", thoughtID.String()).
					Str("kind", string(kind)).
					Msg("enrichment enqueue failed")
			}
		}
	}

	c.log.Info().Str("user_id", user.ID.String()).Msg("starter content seeded")
	return nil
}
