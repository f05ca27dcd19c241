package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/continuum-journal/continuum/internal/access"
	"github.com/continuum-journal/continuum/internal/models"
	"github.com/continuum-journal/continuum/internal/services"
)

func TestOnboardUserSeedsStarterContent(t *testing.T) {
	content, queue := newTestContent(t)
	alice := newTestUser(t, content)

	var user models.User
	require.NoError(t, content.DB().First(&user, "id = ?", alice).Error)

	onboarded, err := content.HasOnboarded(alice)
	require.NoError(t, err)
	assert.False(t, onboarded)

	require.NoError(t, content.OnboardUser(&user, "alice@example.com"))

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice@example.com", user.Username)

	onboarded, err = content.HasOnboarded(alice)
	require.NoError(t, err)
	assert.True(t, onboarded)

	// One onboarding tag.
	tags, count, err := content.ListTags(alice, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	assert.Equal(t, "onboarding", tags[0].Name)
	assert.Equal(t, "blue", tags[0].Colour)

	// Two entries, today then yesterday, each holding one tagged thought.
	entries, count, err := content.ListEntries(alice, services.EntryFilters{}, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, today, time.Time(entries[0].Date).Format("2006-01-02"))

	for _, e := range entries {
		got, err := content.GetEntry(alice, e.ID)
		require.NoError(t, err)
		require.Len(t, got.Thoughts, 1)
		require.Len(t, got.Thoughts[0].Tags, 1)
		assert.Equal(t, "onboarding", got.Thoughts[0].Tags[0].Name)

		// Seeded thoughts are fully owned.
		for _, capability := range []string{
			models.CapabilityView, models.CapabilityChange, models.CapabilityDelete,
		} {
			ok, err := access.Has(content.DB(), alice, models.ObjectThought, got.Thoughts[0].ID, capability)
			require.NoError(t, err)
			assert.True(t, ok, capability)
		}
	}

	// Both derived fields are requested for each seeded thought.
	jobs := drain(queue)
	assert.Len(t, jobs, 4)
}
