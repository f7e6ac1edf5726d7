// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/Laisfaustt/ProjetoCamali/internal/application/services"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

type signupRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
	Course   string `json:"curso"`
}

// PostSignup handles POST /api/v1/auth/signup - account registration
func (h *AuthHandlers) PostSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), req.Name, req.Email, req.Password, req.Course)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusConflict, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login - credential authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnauthorized, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

type resetRequest struct {
	Email    string `json:"email" binding:"required"`
	ResetURL string `json:"resetUrl"`
}

// PostPasswordReset handles POST /api/v1/auth/password-reset - sends the
// recovery email. Always returns 200 so callers cannot probe for accounts.
func (h *AuthHandlers) PostPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email required"})
		return
	}

	if req.ResetURL == "" {
		req.ResetURL = "https://camali.app/redefinir-senha"
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email, req.ResetURL); err != nil {
		h.logger.Auth().Error("Password reset request failed", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type resetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

// PostPasswordResetConfirm handles POST /api/v1/auth/password-reset/confirm
func (h *AuthHandlers) PostPasswordResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and password required"})
		return
	}

	result, err := h.authService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password reset failed"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
