package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/infrastructure/api"
	"github.com/sangkips/investify-desk/pkg/apperror"
)

// GetUser extracts the signed-in user set by the auth middleware
func GetUser(c *gin.Context) *entity.User {
	userVal, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := userVal.(*entity.User)
	if !ok {
		return nil
	}
	return user
}

// requestContext returns the request context carrying the request id,
// so upstream calls can be correlated with the local request
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if requestID := c.GetString("request_id"); requestID != "" {
		ctx = api.WithRequestID(ctx, requestID)
	}
	return ctx
}

// parseUUIDParam parses a path parameter as a uuid
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + name)
	}
	return id, nil
}
