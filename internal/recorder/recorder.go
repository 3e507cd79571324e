package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/blogchat/server/internal/logger"
	"codeberg.org/blogchat/server/internal/retriever"
	"github.com/google/uuid"
)

const defaultTimeout = 5 * time.Second

// one answered question; rows are append-only
type InteractionRecord struct {
	ID             string
	Query          string
	Answer         string
	SourceIDs      []string
	ConversationID string
	Timestamp      time.Time
}

type LogStore interface {
	AppendInteraction(ctx context.Context, rec InteractionRecord) error
}

type Recorder struct {
	store   LogStore
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func New(store LogStore, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Recorder{
		store:   store,
		timeout: timeout,
		now:     time.Now,
	}
}

// Record writes one interaction. Failures are logged and never returned.
func (r *Recorder) Record(ctx context.Context, query, answer string, candidates []retriever.Candidate, conversationID string) {
	rec := InteractionRecord{
		ID:             uuid.NewString(),
		Query:          query,
		Answer:         answer,
		SourceIDs:      sourceIDs(candidates),
		ConversationID: conversationID,
		Timestamp:      r.now().UTC(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.write(writeCtx, rec); err != nil {
		logger.FromContext(ctx).Warn("failed to record chat interaction",
			"error", err,
			"interaction_id", rec.ID,
			"conversation_id", conversationID,
		)
	}
}

// RecordAsync records in the background, detached from ctx cancellation.
// the returned channel closes once the write has finished or failed.
func (r *Recorder) RecordAsync(ctx context.Context, query, answer string, candidates []retriever.Candidate, conversationID string) <-chan struct{} {
	done := make(chan struct{})
	bg := context.WithoutCancel(ctx)

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer close(done)

		r.Record(bg, query, answer, candidates, conversationID)
	}()

	return done
}

// blocks until every RecordAsync write has returned
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) write(ctx context.Context, rec InteractionRecord) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("interaction store panicked: %v", p)
		}
	}()

	if r.store == nil {
		return fmt.Errorf("no interaction store configured")
	}

	return r.store.AppendInteraction(ctx, rec)
}

// distinct ids in candidate order
func sourceIDs(candidates []retriever.Candidate) []string {
	ids := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if c.ID == "" {
			continue
		}

		if _, ok := seen[c.ID]; ok {
			continue
		}

		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}

	return ids
}
