package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/blogchat/server/internal/config"
	"codeberg.org/blogchat/server/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWaitTimeout(t *testing.T) {
	assert.True(t, waitTimeout(func() {}, time.Second))

	block := make(chan struct{})
	defer close(block)
	assert.False(t, waitTimeout(func() { <-block }, 20*time.Millisecond))
}

func TestCORSMiddleware_AllowsAnyOriginByDefault(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.POST("/api/v1/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.Header.Set("Origin", "https://blog.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_AllowList(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://blog.example"}))
	r.POST("/api/v1/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestPipelineEmbedder(t *testing.T) {
	l := &llm.CompositeLLM{Embedder: llm.NewOpenAIEmbedder(llm.OpenAIConfig{APIKey: "k"})}

	assert.Nil(t, pipelineEmbedder(&config.Config{}, l))
	assert.NotNil(t, pipelineEmbedder(&config.Config{OpenAIKey: "k"}, l))
}
