package storage

import (
	"context"
	"fmt"

	"codeberg.org/blogchat/server/internal/recorder"
)

// appends one row to chat_interactions; rows are never updated
func (c *Client) AppendInteraction(ctx context.Context, rec recorder.InteractionRecord) error {
	sources := rec.SourceIDs
	if sources == nil {
		sources = []string{}
	}

	_, err := c.pool.Exec(ctx, insertInteractionQuery,
		rec.ID,
		rec.Query,
		rec.Answer,
		sources,
		rec.ConversationID,
		rec.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	return nil
}
