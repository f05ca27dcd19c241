package services_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/models"
)

func TestCreateTagGrantsCreatorView(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)

	tag, err := content.CreateTag(alice, "work", "day job", "blue")
	require.NoError(t, err)

	got, err := content.GetTag(alice, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "work", got.Name)
	assert.Equal(t, "blue", got.Colour)
}

func TestCreateTagValidation(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)

	_, err := content.CreateTag(alice, "", "", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = content.CreateTag(alice, strings.Repeat("x", 101), "", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = content.CreateTag(alice, "ok", "", strings.Repeat("x", 25))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestTagsAreInvisibleToOtherSubjects(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)
	bob := newTestUser(t, content)

	tag, err := content.CreateTag(alice, "private", "", "")
	require.NoError(t, err)

	// Bob cannot tell the tag exists at all.
	_, err = content.GetTag(bob, tag.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	tags, count, err := content.ListTags(bob, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, tags)

	tags, count, err = content.ListTags(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, tags, 1)
	assert.Equal(t, tag.ID, tags[0].ID)
}

func TestGetMissingTagIsNotFound(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)

	_, err := content.GetTag(alice, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateTag(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)
	bob := newTestUser(t, content)

	tag, err := content.CreateTag(alice, "work", "old", "blue")
	require.NoError(t, err)

	updated, err := content.UpdateTag(alice, tag.ID, "career", "new", "green")
	require.NoError(t, err)
	assert.Equal(t, "career", updated.Name)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, "green", updated.Colour)

	_, err = content.UpdateTag(bob, tag.ID, "stolen", "", "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteTagRemovesGrantsAndLinks(t *testing.T) {
	content, queue := newTestContent(t)
	alice := newTestUser(t, content)

	tag, err := content.CreateTag(alice, "work", "", "")
	require.NoError(t, err)
	entry, err := content.CreateEntry(alice, "2026-08-30")
	require.NoError(t, err)
	thought, err := content.AddThought(alice, entry.ID, "short note", []uuid.UUID{tag.ID})
	require.NoError(t, err)
	drain(queue)

	require.NoError(t, content.DeleteTag(alice, tag.ID))

	_, err = content.GetTag(alice, tag.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// The thought survives without the tag.
	got, err := content.GetThought(alice, thought.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	var grants int64
	require.NoError(t, content.DB().Model(&models.Grant{}).
		Where("object_type = ? AND object_id = ?", models.ObjectTag, tag.ID).
		Count(&grants).Error)
	assert.Zero(t, grants)
}
