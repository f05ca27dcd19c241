package enrichment

import (
	"context"
	"errors"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/models"
)

// Pool consumes enrichment jobs from a Queue and writes derived fields
// back onto thoughts. Re-running a job is idempotent: mood and actions are
// overwritten unconditionally.
type Pool struct {
	db         *gorm.DB
	classifier Classifier
	queue      *Queue
	log        zerolog.Logger
	workers    int
	maxRetries uint64
	wg         sync.WaitGroup
	startOnce  sync.Once
}

// NewPool creates a worker pool. The classifier is injected so tests can
// substitute a fixture implementation.
func NewPool(db *gorm.DB, classifier Classifier, queue *Queue, log zerolog.Logger, workers int, maxRetries int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Pool{
		db:         db,
		classifier: classifier,
		queue:      queue,
		log:        log.With().Str("component", "enrichment").Logger(),
		workers:    workers,
		maxRetries: uint64(maxRetries),
	}
}

// Start launches the workers. They drain the queue until it is closed or
// the context is cancelled.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.log.Info().Int("workers", p.workers).Msg("starting enrichment pool")
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker(ctx)
		}
	})
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.queue.Close()
	p.wg.Wait()
	p.log.Info().Msg("enrichment pool stopped")
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.queue.jobs:
			if !ok {
				return
			}
			p.run(ctx, job)
		}
	}
}

// run executes one job. A panic here must not take down the pool.
func (p *Pool) run(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().
				Str("thought_id", job.ThoughtID.String()).
				Str("kind", string(job.Kind)).
				Interface("panic", r).
				Msg("enrichment job panicked")
		}
	}()

	var thought models.Thought
	err := p.db.First(&thought, "id = ?", job.ThoughtID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The thought was deleted between enqueue and execution.
		p.log.Warn().
			Str("thought_id", job.ThoughtID.String()).
			Str("kind", string(job.Kind)).
			Msg("dropping job for missing thought")
		return
	}
	if err != nil {
		p.log.Error().Err(err).
			Str("thought_id", job.ThoughtID.String()).
			Msg("failed to load thought")
		return
	}

	var prompt string
	switch job.Kind {
	case JobExtractMood:
		prompt = moodPrompt
	case JobExtractActions:
		prompt = actionsPrompt
	default:
		p.log.Error().Str("kind", string(job.Kind)).Msg("unknown job kind")
		return
	}

	response, err := p.classify(ctx, prompt, thought.Content)
	if err != nil {
		// Transient external failure that survived the retry budget.
		p.log.Error().Err(err).
			Str("thought_id", job.ThoughtID.String()).
			Str("kind", string(job.Kind)).
			Msg("dropping job after exhausted retries")
		return
	}

	switch job.Kind {
	case JobExtractMood:
		mood := ParseMood(response)
		if err := p.db.Model(&models.Thought{}).
			Where("id = ?", job.ThoughtID).
			Update("mood", mood).Error; err != nil {
			p.log.Error().Err(err).Str("thought_id", job.ThoughtID.String()).Msg("failed to persist mood")
			return
		}
		event := p.log.Info().Str("thought_id", job.ThoughtID.String())
		if mood == nil {
			event.Msg("discarded unusable mood response")
		} else {
			event.Int("mood", *mood).Msg("extracted mood")
		}

	case JobExtractActions:
		actions := ParseActions(response)
		if err := p.db.Model(&models.Thought{}).
			Where("id = ?", job.ThoughtID).
			Update("actions", actions).Error; err != nil {
			p.log.Error().Err(err).Str("thought_id", job.ThoughtID.String()).Msg("failed to persist actions")
			return
		}
		p.log.Info().Str("thought_id", job.ThoughtID.String()).Msg("extracted actions")
	}
}

// classify calls the external service with bounded exponential backoff.
// Only transport-level failures are retried; a successful response with
// unusable content is handled by the parsers.
func (p *Pool) classify(ctx context.Context, prompt, content string) (string, error) {
	var response string
	operation := func() error {
		var err error
		response, err = p.classifier.Classify(ctx, prompt, content)
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return response, nil
}
