package handlers

import (
	"net/http"
	"strconv"

	"github.com/Laisfaustt/ProjetoCamali/internal/application/services"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// HistoryHandlers contains the calendar history HTTP handlers
type HistoryHandlers struct {
	historyService *services.HistoryService
	logger         *logging.ChanneledLogger
}

// NewHistoryHandlers creates history handlers with injected dependencies
func NewHistoryHandlers(historyService *services.HistoryService, logger *logging.ChanneledLogger) *HistoryHandlers {
	return &HistoryHandlers{
		historyService: historyService,
		logger:         logger,
	}
}

// GetYear handles GET /api/v1/history/:year - the full year aggregate
func (h *HistoryHandlers) GetYear(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	year, ok := intParam(c, "year")
	if !ok {
		return
	}

	aggregate, err := h.historyService.Year(c.Request.Context(), session.UserID, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// GetMonth handles GET /api/v1/history/:year/:month - marked days of a month.
// month is 0-based like the stored events.
func (h *HistoryHandlers) GetMonth(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	month, ok := intParam(c, "month")
	if !ok {
		return
	}

	view, err := h.historyService.Month(c.Request.Context(), session.UserID, year, month)
	if err != nil {
		if month < 0 || month > 11 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month out of range"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load month"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetDay handles GET /api/v1/history/:year/:month/days/:day - the entries of
// one local day. day is "YYYY-MM-DD".
func (h *HistoryHandlers) GetDay(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	month, ok := intParam(c, "month")
	if !ok {
		return
	}

	entries, err := h.historyService.Day(c.Request.Context(), session.UserID, year, month, c.Param("day"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load day"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a number"})
		return 0, false
	}
	return value, true
}
