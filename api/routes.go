package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthymeal/backend/server/middleware"
)

// Deps holds everything route registration needs.
type Deps struct {
	Adjustments *AdjustmentHandler
	// TokenValidator resolves a bearer token to a user id.
	TokenValidator func(token string) (string, error)
	// RequestsPerMinute limits adjustment starts per user. Zero disables
	// the limit.
	RequestsPerMinute int
}

// Register mounts the API routes under /api with authentication applied.
func Register(engine *gin.Engine, deps Deps) {
	// Liveness probe under the API prefix, no authentication.
	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := engine.Group("/api")
	group.Use(middleware.Auth(middleware.AuthConfig{
		TokenValidator: deps.TokenValidator,
	}))

	start := group.Group("")
	if deps.RequestsPerMinute > 0 {
		start.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: deps.RequestsPerMinute,
			KeyFunc:           middleware.UserBasedKey,
		}))
	}
	start.POST("/recipes/:id/ai-adjustments", deps.Adjustments.Start)

	group.GET("/recipes/:id/ai-adjustments/:jobId", deps.Adjustments.GetJob)
}
