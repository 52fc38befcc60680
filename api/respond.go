package api

import (
	"github.com/gin-gonic/gin"

	"github.com/healthymeal/backend/errors"
	"github.com/healthymeal/backend/openrouter"
	"github.com/healthymeal/backend/server"
	"github.com/healthymeal/backend/server/middleware"
)

// requireUser extracts the authenticated user id or aborts with 401. The
// auth middleware normally guarantees its presence.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		server.RespondWithError(c, errors.Unauthorized(""))
		return "", false
	}
	return userID, true
}

// respondError translates gateway errors to their mapped HTTP statuses and
// falls back to the shared AppError handling for everything else.
func respondError(c *gin.Context, err error) {
	if gwErr, ok := openrouter.AsError(err); ok {
		c.JSON(gwErr.HTTPStatus, errors.ErrorResponse{
			Error: errors.ErrorBody{
				Code:      errors.ErrorCode(gwErr.Code),
				Message:   gwErr.Message,
				Retryable: gwErr.Retryable,
			},
		})
		return
	}
	server.RespondWithError(c, err)
}
