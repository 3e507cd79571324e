package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/blogchat/server/internal/logger"
	"codeberg.org/blogchat/server/internal/prompt"
)

const defaultCompletionTimeout = 60 * time.Second

type Service struct {
	retriever         Retriever
	completer         Completer
	recorder          Recorder
	topK              int
	completionTimeout time.Duration
}

// topK 0 defers to the retriever's default; a nil recorder disables interaction logging
func New(ret Retriever, completer Completer, rec Recorder, topK int, completionTimeout time.Duration) *Service {
	if completionTimeout <= 0 {
		completionTimeout = defaultCompletionTimeout
	}

	return &Service{
		retriever:         ret,
		completer:         completer,
		recorder:          rec,
		topK:              topK,
		completionTimeout: completionTimeout,
	}
}

// Answer runs retrieve → build → complete → record for one message.
// only retrieval being unavailable or the completion failing are returned as errors.
func (s *Service) Answer(ctx context.Context, req Request) (*Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}

	log := logger.FromContext(ctx)

	res, err := s.retriever.Search(ctx, message, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve posts: %w", err)
	}

	p := prompt.Build(message, res.Candidates)

	completionCtx, cancel := context.WithTimeout(ctx, s.completionTimeout)
	defer cancel()

	answer, err := s.completer.Complete(completionCtx, p.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompletionFailure, err)
	}

	if s.recorder != nil {
		s.recorder.RecordAsync(ctx, message, answer, res.Candidates, req.ConversationID)
	}

	sources := make([]Source, 0, len(p.Citations))
	for _, c := range p.Citations {
		sources = append(sources, Source{Title: c.Title, Slug: c.Slug, Topic: c.Topic})
	}

	log.Info("chat answered",
		"mode", res.Mode,
		"sources", len(sources),
		"prompt_version", p.Version,
		"conversation_id", req.ConversationID,
	)

	return &Response{
		Answer:  answer,
		Sources: sources,
		Mode:    res.Mode,
	}, nil
}
