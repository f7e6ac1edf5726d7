package handlers

import (
	"errors"
	"net/http"

	"github.com/Laisfaustt/ProjetoCamali/internal/application/services"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
	"github.com/Laisfaustt/ProjetoCamali/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProfileHandlers contains the account profile HTTP handlers
type ProfileHandlers struct {
	profileService *services.ProfileService
	logger         *logging.ChanneledLogger
}

// NewProfileHandlers creates profile handlers with injected dependencies
func NewProfileHandlers(profileService *services.ProfileService, logger *logging.ChanneledLogger) *ProfileHandlers {
	return &ProfileHandlers{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile handles GET /api/v1/profile - the session user's profile
func (h *ProfileHandlers) GetProfile(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	profile, err := h.profileService.Get(c.Request.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name   string `json:"nome"`
	Course string `json:"curso"`
}

// PutProfile handles PUT /api/v1/profile - edits the basic profile fields
func (h *ProfileHandlers) PutProfile(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.profileService.UpdateBasics(c.Request.Context(), session.UserID, req.Name, req.Course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type avatarRequest struct {
	Image string `json:"image" binding:"required"`
}

// PostAvatar handles POST /api/v1/profile/avatar - uploads a base64 avatar
func (h *ProfileHandlers) PostAvatar(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image required"})
		return
	}

	url, err := h.profileService.UploadAvatar(c.Request.Context(), session.UserID, req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatarUrl": url})
}

type questionnaireRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// PostQuestionnaire handles POST /api/v1/profile/questionnaire - scores the
// anxiety questionnaire
func (h *ProfileHandlers) PostQuestionnaire(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	var req questionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answers required"})
		return
	}

	level, err := h.profileService.ApplyQuestionnaire(c.Request.Context(), session.UserID, req.Answers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nivelAnsiedade": level})
}
