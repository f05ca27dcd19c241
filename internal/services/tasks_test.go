package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/models"
	"github.com/continuum-journal/continuum/internal/services"
)

func TestCreateTaskRequiresName(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)

	_, err := content.CreateTask(alice, services.TaskInput{Name: "   "})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	task, err := content.CreateTask(alice, services.TaskInput{Name: "water the plants"})
	require.NoError(t, err)
	assert.Equal(t, "water the plants", task.Name)
}

func TestListActiveTasksExcludesFutureSnooze(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)

	_, err := content.CreateTask(alice, services.TaskInput{Name: "now"})
	require.NoError(t, err)

	past := time.Now().UTC().Add(-48 * time.Hour)
	_, err = content.CreateTask(alice, services.TaskInput{Name: "woken", Snooze: &past})
	require.NoError(t, err)

	future := time.Now().UTC().Add(48 * time.Hour)
	_, err = content.CreateTask(alice, services.TaskInput{Name: "sleeping", Snooze: &future})
	require.NoError(t, err)

	tasks, err := content.ListActiveTasks(alice)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.NotEqual(t, "sleeping", task.Name)
	}
}

func TestListActiveTasksOrderAndCap(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)

	base := time.Now().Add(-24 * time.Hour)
	var oldest string
	for i := 0; i < 12; i++ {
		task, err := content.CreateTask(alice, services.TaskInput{Name: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
		if i == 0 {
			oldest = task.Name
		}
		require.NoError(t, content.DB().Model(&models.Task{}).
			Where("id = ?", task.ID).
			Update("updated_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	tasks, err := content.ListActiveTasks(alice)
	require.NoError(t, err)
	require.Len(t, tasks, services.ActiveTaskLimit)
	// Least recently touched first.
	assert.Equal(t, oldest, tasks[0].Name)
}

func TestTasksAreIsolatedBetweenSubjects(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)
	bob := newTestUser(t, content)

	task, err := content.CreateTask(alice, services.TaskInput{Name: "mine"})
	require.NoError(t, err)

	_, err = content.GetTask(bob, task.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = content.UpdateTask(bob, task.ID, services.TaskInput{Name: "stolen"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = content.DeleteTask(bob, task.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	tasks, err := content.ListActiveTasks(bob)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateTaskRewritesFields(t *testing.T) {
	content, queue := newTestContent(t)
	alice := newTestUser(t, content)

	tag, err := content.CreateTag(alice, "chores", "", "")
	require.NoError(t, err)
	task, err := content.CreateTask(alice, services.TaskInput{Name: "original"})
	require.NoError(t, err)
	drain(queue)

	snooze := time.Now().UTC().Add(24 * time.Hour)
	updated, err := content.UpdateTask(alice, task.ID, services.TaskInput{
		Name:        "renamed",
		Notes:       "some notes",
		Snooze:      &snooze,
		IsCompleted: true,
		TagIDs:      []uuid.UUID{tag.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "some notes", updated.Notes)
	assert.True(t, updated.IsCompleted)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, tag.ID, updated.Tags[0].ID)
}

func TestDeleteTaskRemovesGrants(t *testing.T) {
	content, _ := newTestContent(t)
	alice := newTestUser(t, content)

	task, err := content.CreateTask(alice, services.TaskInput{Name: "doomed"})
	require.NoError(t, err)

	require.NoError(t, content.DeleteTask(alice, task.ID))

	_, err = content.GetTask(alice, task.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var grants int64
	require.NoError(t, content.DB().Model(&models.Grant{}).
		Where("object_type = ? AND object_id = ?", models.ObjectTask, task.ID).
		Count(&grants).Error)
	assert.Zero(t, grants)
}
