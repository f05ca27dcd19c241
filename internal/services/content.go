package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/access"
	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/enrichment"
)

// Fixed page sizes. Tags and entries paginate at 100, the flat thought
// collection at 10, and active task listings are capped at 10.
const (
	TagPageSize     = 100
	EntryPageSize   = 100
	ThoughtPageSize = 10
	ActiveTaskLimit = 10

	// Edits shorter than this many words never trigger re-analysis.
	EnrichmentWordThreshold = 10

	MaxNameLength   = 100
	MaxColourLength = 24
)

// Content validates and mutates tags, entries, thoughts and tasks. Every
// read and write goes through the access layer first; qualifying thought
// edits enqueue enrichment after the transaction commits.
type Content struct {
	db    *gorm.DB
	queue enrichment.Enqueuer
	log   zerolog.Logger
}

// NewContent creates the content service. The enqueuer is injected so
// tests can observe or suppress enrichment jobs.
func NewContent(db *gorm.DB, queue enrichment.Enqueuer, log zerolog.Logger) *Content {
	return &Content{
		db:    db,
		queue: queue,
		log:   log.With().Str("component", "content").Logger(),
	}
}

// DB exposes the underlying handle for collaborators wired at startup.
func (c *Content) DB() *gorm.DB {
	return c.db
}

// require resolves a capability check to the merged not-found error:
// an object the subject cannot act on is indistinguishable from one that
// does not exist.
func (c *Content) require(subject uuid.UUID, objectType string, objectID uuid.UUID, capability, resource string) error {
	ok, err := access.Has(c.db, subject, objectType, objectID, capability)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound(resource)
	}
	return nil
}

// maybeEnqueueEnrichment submits both job kinds when the new content is
// long enough. Called after commit; a full queue is logged, never
// surfaced to the caller.
func (c *Content) maybeEnqueueEnrichment(thoughtID uuid.UUID, content string) {
	if len(strings.Fields(content)) < EnrichmentWordThreshold {
		return
	}
	for _, kind := range []enrichment.JobKind{enrichment.JobExtractMood, enrichment.JobExtractActions} {
		if err := c.queue.Enqueue(enrichment.Job{ThoughtID: thoughtID, Kind: kind}); err != nil {
			c.log.Warn().Err(err).
				Str("thought_id", thoughtID.String()).
				Str("kind", string(kind)).
				Msg("failed to enqueue enrichment job")
		}
	}
}

// paginate clamps a 1-based page number and applies the fixed page size.
func paginate(q *gorm.DB, page, pageSize int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	return q.Limit(pageSize).Offset((page - 1) * pageSize)
}
