package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-desk/internal/application/service"
	"github.com/sangkips/investify-desk/internal/presentation/http/dto/request"
	"github.com/sangkips/investify-desk/internal/presentation/http/dto/response"
	"github.com/sangkips/investify-desk/pkg/apperror"
)

// SessionHandler handles sign in and sign out of the desk
type SessionHandler struct {
	session *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session *service.SessionService) *SessionHandler {
	return &SessionHandler{session: session}
}

// Login signs the desk in against the back-office API
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.session.Login(requestContext(c), &service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{"user": user})
}

// Logout clears the stored session
// @Router /auth/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logout successful", nil)
}

// Me returns the signed-in user
// @Router /auth/me [get]
func (h *SessionHandler) Me(c *gin.Context) {
	user := GetUser(c)
	if user == nil {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	response.OK(c, "Profile retrieved successfully", gin.H{"user": user})
}
