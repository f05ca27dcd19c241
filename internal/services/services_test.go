package services_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/database"
	"github.com/continuum-journal/continuum/internal/enrichment"
	"github.com/continuum-journal/continuum/internal/models"
	"github.com/continuum-journal/continuum/internal/services"
)

// newTestContent builds a content service on an in-memory database with
// an observable enrichment queue.
func newTestContent(t *testing.T) (*services.Content, *enrichment.Queue) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	queue := enrichment.NewQueue(32)
	return services.NewContent(db, queue, zerolog.Nop()), queue
}

// newTestUser persists a user row and returns its id.
func newTestUser(t *testing.T, content *services.Content) uuid.UUID {
	t.Helper()
	user := models.User{Sub: uuid.New().String()}
	require.NoError(t, content.DB().Create(&user).Error)
	return user.ID
}

// drain empties the queue and returns the jobs it held.
func drain(queue *enrichment.Queue) []enrichment.Job {
	var jobs []enrichment.Job
	for queue.Len() > 0 {
		// Enqueue is the only writer in these tests, Len is exact.
		job, ok := queue.Dequeue()
		if !ok {
			break
		}
		jobs = append(jobs, job)
	}
	return jobs
}
