package errors

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"codeberg.org/blogchat/server/internal/chat"
	"codeberg.org/blogchat/server/internal/content"
	"codeberg.org/blogchat/server/internal/retriever"
	"github.com/jackc/pgx/v5/pgconn"
)

// categories attached to logged pipeline failures
const (
	CategoryRetrieval  = "retrieval"
	CategoryCompletion = "completion"
	CategoryDimension  = "embedding_dimension"
	CategoryDatabase   = "database"
	CategoryTimeout    = "timeout"
	CategoryValidation = "validation"
	CategoryUnknown    = "unknown"
)

// first matching rule wins; pipeline sentinels come before the causes they wrap
type classifyRule struct {
	category  string
	sanitized string
	match     func(err error, msg string) bool
}

var classifyRules = []classifyRule{
	{CategoryDimension, "search is misconfigured", is(content.ErrDimensionMismatch)},
	{CategoryRetrieval, "search is unavailable", is(retriever.ErrRetrievalUnavailable)},
	{CategoryCompletion, "answer generation failed", is(chat.ErrCompletionFailure)},
	{CategoryTimeout, "request timed out", func(err error, msg string) bool {
		return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
			strings.Contains(msg, "timeout")
	}},
	{CategoryDatabase, "database operation failed", func(err error, msg string) bool {
		var pgErr *pgconn.PgError
		var connErr *pgconn.ConnectError
		return errors.As(err, &pgErr) || errors.As(err, &connErr) || strings.Contains(msg, "postgres")
	}},
	{CategoryValidation, "validation failed", func(err error, msg string) bool {
		var tooLarge *http.MaxBytesError
		return errors.Is(err, chat.ErrInvalidRequest) || errors.As(err, &tooLarge) ||
			strings.Contains(msg, "binding") || strings.Contains(msg, "validation")
	}},
}

func is(target error) func(error, string) bool {
	return func(err error, _ string) bool {
		return errors.Is(err, target)
	}
}

// returns the category an error would be logged under
func Category(err error) string {
	return classifyError(err).category
}

// picks the category of err and the message a client may see for it.
// outside production the raw error text is kept.
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, ""}
	}

	production := os.Getenv("ENVIRONMENT") == "production"
	msg := strings.ToLower(err.Error())

	for _, r := range classifyRules {
		if r.match(err, msg) {
			return ErrorInfo{r.category, sanitized(production, r.sanitized, err)}
		}
	}

	return ErrorInfo{CategoryUnknown, sanitized(production, "an error occurred", err)}
}

func sanitized(production bool, generic string, err error) string {
	if production {
		return generic
	}

	return err.Error()
}
