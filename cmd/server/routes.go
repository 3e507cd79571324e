package main

import (
	"time"

	"codeberg.org/blogchat/server/api/rest/chat"
	"codeberg.org/blogchat/server/api/rest/health"
	"codeberg.org/blogchat/server/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.AllowedOrigins))
	router.Use(RequestLogger())

	health.RegisterRoutes(router, server.store)

	limit := server.limiter.Middleware()

	chat.RegisterRoutes(router.Group("/api/v1"), server.services.Chat, limit)

	// the path the blog's widget has always called
	chat.RegisterRoutes(router.Group("/.netlify/functions"), server.services.Chat, limit)
}

// allows any origin unless an allow-list is configured
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}

	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}

	return cors.New(cfg)
}

// tags each request with an id and stores a request-scoped logger in its context
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header("X-Request-ID", requestID)

		l := logger.With("request_id", requestID, "path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), l))

		c.Next()
	}
}
