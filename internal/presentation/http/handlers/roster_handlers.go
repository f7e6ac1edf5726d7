package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/application/services"
	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/presentation/http/middleware"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
	"github.com/gin-gonic/gin"
)

// RosterHandlers contains the advisor roster HTTP handlers
type RosterHandlers struct {
	rosterService  *services.RosterService
	profileService *services.ProfileService
	logger         *logging.ChanneledLogger
}

// NewRosterHandlers creates roster handlers with injected dependencies
func NewRosterHandlers(rosterService *services.RosterService, profileService *services.ProfileService, logger *logging.ChanneledLogger) *RosterHandlers {
	return &RosterHandlers{
		rosterService:  rosterService,
		profileService: profileService,
		logger:         logger,
	}
}

// GetStudents handles GET /api/v1/students - lists every student
func (h *RosterHandlers) GetStudents(c *gin.Context) {
	students, err := h.rosterService.Students(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": students})
}

// GetStudent handles GET /api/v1/students/:id - one student profile
func (h *RosterHandlers) GetStudent(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetStudentsStream handles GET /api/v1/students/stream - live roster over SSE
func (h *RosterHandlers) GetStudentsStream(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	start := time.Now()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	frames := make(chan string, 8)
	disposer, err := h.rosterService.Subscribe(func(students []user.Profile, err error) {
		var frame string
		if err != nil {
			frame = "event: roster_error\ndata: {\"error\":\"failed to refresh roster\"}\n\n"
		} else {
			payload, marshalErr := json.Marshal(gin.H{"students": students})
			if marshalErr != nil {
				h.logger.SSE().Error("Roster payload marshal failed", "error", marshalErr)
				return
			}
			frame = fmt.Sprintf("event: roster_updated\ndata: %s\n\n", payload)
		}
		select {
		case frames <- frame:
		default:
			h.logger.SSE().Warn("Roster stream channel full, dropping frame", "userId", session.UserID)
		}
	})
	if err != nil {
		h.logger.SSE().Error("Roster subscription failed", "error", err, "userId", session.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open roster stream"})
		return
	}
	defer disposer.Dispose()

	h.logger.SSE().Info("Roster stream established", "userId", session.UserID, "setupDuration", time.Since(start))

	clientCtx := c.Request.Context()
	heartbeat := time.NewTicker(time.Duration(config.SSEHeartbeatIntervalSeconds) * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-clientCtx.Done():
			h.logger.SSE().Info("Roster stream client disconnected", "userId", session.UserID, "connectionDuration", time.Since(start))
			return

		case frame := <-frames:
			if _, err := c.Writer.WriteString(frame); err != nil {
				h.logger.SSE().Error("SSE write failed", "error", err.Error(), "userId", session.UserID)
				return
			}
			c.Writer.Flush()

		case <-heartbeat.C:
			if _, err := c.Writer.WriteString(": heartbeat\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

type notesRequest struct {
	Notes string `json:"anotacoes"`
}

// PutStudentNotes handles PUT /api/v1/students/:id/notes - saves advisor notes
func (h *RosterHandlers) PutStudentNotes(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.profileService.SetNotes(c.Request.Context(), c.Param("id"), req.Notes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
