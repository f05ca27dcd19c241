package enrichment

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/models"
)

// stubClassifier returns a canned response, or an error when set.
type stubClassifier struct {
	response string
	err      error
	calls    int
}

func (s *stubClassifier) Classify(context.Context, string, string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func setupWorkerDB(t *testing.T) (*gorm.DB, models.Thought) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Entry{}, &models.Thought{}))

	entry := models.Entry{}
	require.NoError(t, db.Create(&entry).Error)
	thought := models.Thought{EntryID: entry.ID, Content: "today I decided to call the bank and finally book the trip"}
	require.NoError(t, db.Create(&thought).Error)
	return db, thought
}

func runOne(t *testing.T, db *gorm.DB, classifier Classifier, job Job) {
	t.Helper()
	queue := NewQueue(4)
	pool := NewPool(db, classifier, queue, zerolog.Nop(), 1, 0)
	require.NoError(t, queue.Enqueue(job))
	pool.Start(context.Background())
	pool.Stop()
}

func TestWorkerExtractsMood(t *testing.T) {
	db, thought := setupWorkerDB(t)
	runOne(t, db, &stubClassifier{response: "4"}, Job{ThoughtID: thought.ID, Kind: JobExtractMood})

	var got models.Thought
	require.NoError(t, db.First(&got, "id = ?", thought.ID).Error)
	require.NotNil(t, got.Mood)
	assert.Equal(t, 4, *got.Mood)
}

func TestWorkerClearsMoodOnUnusableResponse(t *testing.T) {
	db, thought := setupWorkerDB(t)
	require.NoError(t, db.Model(&models.Thought{}).
		Where("id = ?", thought.ID).
		Update("mood", 3).Error)

	runOne(t, db, &stubClassifier{response: "the user is happy"}, Job{ThoughtID: thought.ID, Kind: JobExtractMood})

	var got models.Thought
	require.NoError(t, db.First(&got, "id = ?", thought.ID).Error)
	assert.Nil(t, got.Mood)
}

func TestWorkerExtractsActions(t *testing.T) {
	db, thought := setupWorkerDB(t)
	runOne(t, db, &stubClassifier{response: `["call the bank", "book the trip"]`},
		Job{ThoughtID: thought.ID, Kind: JobExtractActions})

	var got models.Thought
	require.NoError(t, db.First(&got, "id = ?", thought.ID).Error)
	assert.Equal(t, "call the bank;book the trip", got.Actions)
}

func TestWorkerDropsJobForMissingThought(t *testing.T) {
	db, thought := setupWorkerDB(t)
	require.NoError(t, db.Delete(&models.Thought{}, "id = ?", thought.ID).Error)

	classifier := &stubClassifier{response: "3"}
	runOne(t, db, classifier, Job{ThoughtID: thought.ID, Kind: JobExtractMood})

	// A deleted thought never reaches the classifier.
	assert.Zero(t, classifier.calls)
}

func TestWorkerDropsJobAfterExhaustedRetries(t *testing.T) {
	db, thought := setupWorkerDB(t)
	classifier := &stubClassifier{err: errors.New("upstream unavailable")}

	queue := NewQueue(4)
	pool := NewPool(db, classifier, queue, zerolog.Nop(), 1, 2)
	require.NoError(t, queue.Enqueue(Job{ThoughtID: thought.ID, Kind: JobExtractMood}))
	pool.Start(context.Background())
	pool.Stop()

	// Initial attempt plus two retries, then the job is dropped.
	assert.Equal(t, 3, classifier.calls)

	var got models.Thought
	require.NoError(t, db.First(&got, "id = ?", thought.ID).Error)
	assert.Nil(t, got.Mood)
}

func TestStopDrainsQueuedJobs(t *testing.T) {
	db, thought := setupWorkerDB(t)
	classifier := &stubClassifier{response: "4"}

	queue := NewQueue(4)
	pool := NewPool(db, classifier, queue, zerolog.Nop(), 1, 0)
	for i := 0; i < 4; i++ {
		require.NoError(t, queue.Enqueue(Job{ThoughtID: thought.ID, Kind: JobExtractMood}))
	}
	pool.Start(context.Background())

	// Stop closes the queue and waits; every buffered job still runs.
	pool.Stop()
	assert.Equal(t, 4, classifier.calls)
	assert.Zero(t, queue.Len())
}

func TestQueueRejectsWhenFull(t *testing.T) {
	queue := NewQueue(1)
	require.NoError(t, queue.Enqueue(Job{Kind: JobExtractMood}))
	err := queue.Enqueue(Job{Kind: JobExtractActions})
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 1, queue.Len())
}
