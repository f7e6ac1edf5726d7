package handlers

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/application/services"
	"github.com/Laisfaustt/ProjetoCamali/internal/domain/mood"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/messaging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/presentation/http/middleware"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
	"github.com/gin-gonic/gin"
)

var activeSSEConnections int64

// JournalHandlers contains the mood journal HTTP handlers
type JournalHandlers struct {
	journalService *services.JournalService
	broadcaster    *messaging.SSEBroadcaster
	logger         *logging.ChanneledLogger
}

// NewJournalHandlers creates journal handlers with injected dependencies
func NewJournalHandlers(journalService *services.JournalService, broadcaster *messaging.SSEBroadcaster, logger *logging.ChanneledLogger) *JournalHandlers {
	return &JournalHandlers{
		journalService: journalService,
		broadcaster:    broadcaster,
		logger:         logger,
	}
}

// GetMoods handles GET /api/v1/moods - the mood palette
func (h *JournalHandlers) GetMoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"moods": mood.Kinds()})
}

type recordMoodRequest struct {
	Mood string `json:"emocaoId" binding:"required"`
}

// PostMood handles POST /api/v1/journal/moods - records a mood event
func (h *JournalHandlers) PostMood(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	var req recordMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emocaoId required"})
		return
	}

	id, err := h.journalService.RecordMood(c.Request.Context(), session.UserID, req.Mood)
	if err != nil {
		if _, ok := mood.ParseKind(req.Mood); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record mood"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetToday handles GET /api/v1/journal/today - one-shot journal snapshot
func (h *JournalHandlers) GetToday(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	snapshot, err := h.journalService.TodaySnapshot(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load journal"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

type jarBoundsRequest struct {
	Width  float64 `json:"width" binding:"required"`
	Height float64 `json:"height" binding:"required"`
}

// PostJarBounds handles POST /api/v1/journal/jar-bounds - updates droplet
// bounds after a client layout change
func (h *JournalHandlers) PostJarBounds(c *gin.Context) {
	var req jarBoundsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Width <= 0 || req.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height required"})
		return
	}

	h.journalService.SetJarRect(req.Width, req.Height)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetStream handles GET /api/v1/journal/stream - live journal feed over SSE
func (h *JournalHandlers) GetStream(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	start := time.Now()

	current := atomic.LoadInt64(&activeSSEConnections)
	if current >= config.MaxSSEConnections {
		h.logger.SSE().Warn("SSE connection limit reached", "userId", session.UserID, "currentConnections", current)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "connection limit reached, try again later"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := h.broadcaster.AddClient(session.UserID)
	atomic.AddInt64(&activeSSEConnections, 1)
	defer func() {
		atomic.AddInt64(&activeSSEConnections, -1)
		h.broadcaster.RemoveClient(ch, session.UserID)
	}()

	disposer, err := h.journalService.Subscribe(session.UserID)
	if err != nil {
		h.logger.SSE().Error("Journal subscription failed", "error", err, "userId", session.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open journal stream"})
		return
	}
	defer disposer.Dispose()

	if _, err := c.Writer.WriteString(fmt.Sprintf("data: {\"type\":\"connected\",\"timestamp\":\"%s\"}\n\n", time.Now().Format(time.RFC3339))); err != nil {
		return
	}
	c.Writer.Flush()

	h.logger.SSE().Info("Journal stream established",
		"userId", session.UserID,
		"totalConnections", atomic.LoadInt64(&activeSSEConnections),
		"setupDuration", time.Since(start))

	clientCtx := c.Request.Context()
	heartbeat := time.NewTicker(time.Duration(config.SSEHeartbeatIntervalSeconds) * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-clientCtx.Done():
			h.logger.SSE().Info("Journal stream client disconnected", "userId", session.UserID, "connectionDuration", time.Since(start))
			return

		case message, ok := <-ch:
			if !ok {
				return
			}
			if _, err := c.Writer.WriteString(message); err != nil {
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
