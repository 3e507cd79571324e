package main

import (
	"codeberg.org/blogchat/server/internal/chat"
	"codeberg.org/blogchat/server/internal/config"
	"codeberg.org/blogchat/server/internal/llm"
	"codeberg.org/blogchat/server/internal/ratelimit"
	"codeberg.org/blogchat/server/internal/recorder"
	"codeberg.org/blogchat/server/internal/retriever"
	"codeberg.org/blogchat/server/internal/storage"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	store    *storage.Client
	services *Services
	limiter  *ratelimit.Limiter
	router   *gin.Engine
}

// holds the pipeline components (LLM, retriever, recorder, chat)
type Services struct {
	LLM       llm.LLM
	Retriever *retriever.Retriever
	Recorder  *recorder.Recorder
	Chat      *chat.Service
}
