package enrichment

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// JobKind selects which derived field a job writes. The two kinds write
// disjoint fields so they never race against each other.
type JobKind string

const (
	JobExtractMood    JobKind = "extract_mood"
	JobExtractActions JobKind = "extract_actions"
)

// Job is one unit of enrichment work for a single thought.
type Job struct {
	ThoughtID uuid.UUID
	Kind      JobKind
}

// Enqueuer is the narrow interface the content service needs to trigger
// enrichment. Enqueue must never block a request path.
type Enqueuer interface {
	Enqueue(job Job) error
}

// ErrQueueFull is returned when the queue buffer is saturated. Callers log
// and move on; a dropped job is recovered by re-editing the thought.
var ErrQueueFull = errors.New("enrichment queue full")

// Queue is the in-process buffer between the content service and the
// worker pool.
type Queue struct {
	jobs      chan Job
	closeOnce sync.Once
}

// NewQueue creates a queue with the given buffer capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		jobs: make(chan Job, capacity),
	}
}

// Enqueue submits a job without blocking.
func (q *Queue) Enqueue(job Job) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue removes one job without blocking. ok is false when the queue
// is empty or closed.
func (q *Queue) Dequeue() (Job, bool) {
	select {
	case job, open := <-q.jobs:
		if !open {
			return Job{}, false
		}
		return job, true
	default:
		return Job{}, false
	}
}

// Close signals the worker pool that no further jobs will arrive.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.jobs)
	})
}

// Len reports the number of queued jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}
