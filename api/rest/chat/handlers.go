package chat

import (
	"context"
	stderrors "errors"
	"net/http"

	"codeberg.org/blogchat/server/internal/chat"
	"codeberg.org/blogchat/server/internal/errors"
	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 64 << 10

type Answerer interface {
	Answer(ctx context.Context, req chat.Request) (*chat.Response, error)
}

// rejects every method but POST with a 405
func RequirePOST() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			errors.MethodNotAllowed(c, http.MethodPost)
			return
		}

		c.Next()
	}
}

// creates a handler that answers a question from the blog's posts
func Handler(svc Answerer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				errors.RequestTooLarge(c, tooLarge.Limit)
				return
			}

			errors.ValidationError(c, err)
			return
		}

		resp, err := svc.Answer(c.Request.Context(), chat.Request{
			Message:        req.Message,
			ConversationID: req.ConversationID,
		})

		if err != nil {
			if stderrors.Is(err, chat.ErrInvalidRequest) {
				errors.ValidationError(c, err)
				return
			}

			errors.InternalError(c, GenericErrorMessage, err)
			return
		}

		sources := resp.Sources
		if sources == nil {
			sources = []chat.Source{}
		}

		c.JSON(http.StatusOK, Response{
			Response: resp.Answer,
			Sources:  sources,
		})
	}
}
