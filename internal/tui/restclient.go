package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// timeout for chat requests, above the server request timeout
const chatRequestTimeout = 100 * time.Second

// manages HTTP requests to the chat REST API
type ChatClient struct {
	endpoint       string
	conversationID string
	httpClient     *http.Client
}

// creates a chat client bound to one conversation id
func NewChatClient(endpoint string) *ChatClient {
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return &ChatClient{
		endpoint:       strings.TrimRight(endpoint, "/"),
		conversationID: uuid.NewString(),
		httpClient: &http.Client{
			Timeout: chatRequestTimeout,
		},
	}
}

func (c *ChatClient) Endpoint() string {
	return c.endpoint
}

// sends one question to the chat endpoint
func (c *ChatClient) Ask(ctx context.Context, question string) (*ChatResponseMsg, error) {
	payloadBytes, err := json.Marshal(chatRequest{
		Message:        question,
		ConversationID: c.conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/chat", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chatErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%s", errResp.Message)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("rate limited, wait a moment and try again")
		}

		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &ChatResponseMsg{
		question: question,
		answer:   result.Response,
		sources:  result.Sources,
	}, nil
}

// returns a tea.Cmd that asks one question
func (c *ChatClient) AskCmd(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatRequestTimeout)
		defer cancel()

		resp, err := c.Ask(ctx, question)
		if err != nil {
			return ChatErrorMsg{question: question, err: err}
		}

		return *resp
	}
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`
}

type chatErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
