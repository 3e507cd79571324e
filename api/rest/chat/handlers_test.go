package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/blogchat/server/internal/chat"
	apierrors "codeberg.org/blogchat/server/internal/errors"
	"codeberg.org/blogchat/server/internal/retriever"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAnswerer struct {
	fn  func(ctx context.Context, req chat.Request) (*chat.Response, error)
	got []chat.Request
}

func (f *fakeAnswerer) Answer(ctx context.Context, req chat.Request) (*chat.Response, error) {
	f.got = append(f.got, req)
	return f.fn(ctx, req)
}

func newRouter(svc Answerer) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), svc)
	RegisterRoutes(r.Group("/.netlify/functions"), svc)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Success(t *testing.T) {
	svc := &fakeAnswerer{fn: func(context.Context, chat.Request) (*chat.Response, error) {
		return &chat.Response{
			Answer:  "Use channels.",
			Sources: []chat.Source{{Title: "Go Channels", Slug: "go-channels", Topic: "Go"}},
			Mode:    retriever.ModeFull,
		}, nil
	}}

	for _, path := range []string{"/api/v1/chat", "/.netlify/functions/chat"} {
		t.Run(path, func(t *testing.T) {
			w := do(newRouter(svc), http.MethodPost, path, `{"message":"how?","conversation_id":"c1"}`)
			require.Equal(t, http.StatusOK, w.Code)

			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Use channels.", body.Response)
			assert.Equal(t, []chat.Source{{Title: "Go Channels", Slug: "go-channels", Topic: "Go"}}, body.Sources)
		})
	}

	require.Len(t, svc.got, 2)
	assert.Equal(t, chat.Request{Message: "how?", ConversationID: "c1"}, svc.got[0])
}

func TestHandler_EmptySourcesIsArray(t *testing.T) {
	svc := &fakeAnswerer{fn: func(context.Context, chat.Request) (*chat.Response, error) {
		return &chat.Response{Answer: "Not covered yet."}, nil
	}}

	w := do(newRouter(svc), http.MethodPost, "/api/v1/chat", `{"message":"k8s?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sources":[]`)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	svc := &fakeAnswerer{fn: func(context.Context, chat.Request) (*chat.Response, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		w := do(newRouter(svc), method, "/api/v1/chat", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
	}
}

func TestHandler_ValidationErrors(t *testing.T) {
	svc := &fakeAnswerer{fn: func(_ context.Context, req chat.Request) (*chat.Response, error) {
		if strings.TrimSpace(req.Message) == "" {
			return nil, fmt.Errorf("%w: message is required", chat.ErrInvalidRequest)
		}
		return &chat.Response{}, nil
	}}

	tests := []struct {
		name string
		body string
	}{
		{"missing message", `{}`},
		{"empty message", `{"message":""}`},
		{"whitespace message", `{"message":"   "}`},
		{"not json", `message=hi`},
		{"too long", `{"message":"` + strings.Repeat("a", 4001) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newRouter(svc), http.MethodPost, "/api/v1/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body apierrors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, apierrors.CodeValidationError, body.Error)
		})
	}
}

func TestHandler_BodyTooLarge(t *testing.T) {
	svc := &fakeAnswerer{fn: func(context.Context, chat.Request) (*chat.Response, error) {
		return &chat.Response{}, nil
	}}

	w := do(newRouter(svc), http.MethodPost, "/api/v1/chat", `{"message":"`+strings.Repeat("a", maxBodyBytes)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, svc.got)

	var body apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.CodeTooLarge, body.Error)
}

func TestHandler_FailureIsGeneric(t *testing.T) {
	failures := []error{
		fmt.Errorf("failed to retrieve posts: %w", retriever.ErrRetrievalUnavailable),
		fmt.Errorf("%w: anthropic: invalid x-api-key sk-ant-secret", chat.ErrCompletionFailure),
		errors.New("pq: password authentication failed for user postgres"),
	}

	for _, failure := range failures {
		svc := &fakeAnswerer{fn: func(context.Context, chat.Request) (*chat.Response, error) {
			return nil, failure
		}}

		w := do(newRouter(svc), http.MethodPost, "/api/v1/chat", `{"message":"q"}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, GenericErrorMessage, body["message"])
		assert.NotContains(t, body, "details")
		assert.NotContains(t, w.Body.String(), "secret")
		assert.NotContains(t, w.Body.String(), "password")
	}
}

func TestHandler_MiddlewareRunsAfterMethodCheck(t *testing.T) {
	calls := 0
	counter := func(c *gin.Context) {
		calls++
		c.Next()
	}

	svc := &fakeAnswerer{fn: func(context.Context, chat.Request) (*chat.Response, error) {
		return &chat.Response{Answer: "ok"}, nil
	}}

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), svc, counter)

	do(r, http.MethodGet, "/api/v1/chat", "")
	assert.Equal(t, 0, calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(`{"message":"q"}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
}
