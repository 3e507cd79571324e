package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/blogchat/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	serviceName = "blogchat"
	version     = "1.0.0"
	pingTimeout = 2 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// returns the server health status; a failing database ping reports 503
func Handler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		}

		if db == nil {
			c.JSON(http.StatusOK, resp)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("health check database ping failed", "error", err)

			resp.Status = "unhealthy"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)

			return
		}

		resp.Database = "ok"
		c.JSON(http.StatusOK, resp)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}

func RegisterRoutes(router *gin.Engine, db Pinger) {
	router.GET("/health", Handler(db))
	router.GET("/api/v1/ping", PingHandler)
}
