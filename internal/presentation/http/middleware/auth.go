package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-desk/internal/application/service"
	"github.com/sangkips/investify-desk/internal/presentation/http/dto/response"
	"github.com/sangkips/investify-desk/pkg/apperror"
)

// AuthMiddleware requires the desk to be signed in and puts the user in context
func AuthMiddleware(session *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := session.User()
		if user == nil {
			response.Unauthorized(c, "Sign in required")
			c.Abort()
			return
		}

		// a token that expired while the desk was running ends the session
		if _, err := session.Token(); err != nil {
			response.Unauthorized(c, "Session expired, sign in again")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Next()
	}
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		if role == "" {
			response.Error(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
