package chat

import (
	"context"
	"errors"

	"codeberg.org/blogchat/server/internal/retriever"
)

var (
	ErrInvalidRequest    = errors.New("invalid chat request")
	ErrCompletionFailure = errors.New("completion failed")
)

type Retriever interface {
	Search(ctx context.Context, query string, topK int) (*retriever.Result, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Recorder interface {
	RecordAsync(ctx context.Context, query, answer string, candidates []retriever.Candidate, conversationID string) <-chan struct{}
}

type Request struct {
	Message        string
	ConversationID string
}

type Source struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Topic string `json:"topic"`
}

type Response struct {
	Answer  string
	Sources []Source
	Mode    retriever.Mode
}
