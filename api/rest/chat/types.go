package chat

import "codeberg.org/blogchat/server/internal/chat"

// GenericErrorMessage is the only thing a caller learns about a failed answer
const GenericErrorMessage = "Sorry, I encountered an error. Please try again."

// Request represents the request body for a chat question
type Request struct {
	Message        string `json:"message" binding:"required,max=4000"`
	ConversationID string `json:"conversation_id" binding:"max=128"`
}

// Response represents a grounded answer and the posts it drew on
type Response struct {
	Response string        `json:"response"`
	Sources  []chat.Source `json:"sources"`
}
