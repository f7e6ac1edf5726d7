package handlers

import (
	"net/http"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/application/services"
	"github.com/Laisfaustt/ProjetoCamali/internal/domain/chat"
	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/security"
	"github.com/Laisfaustt/ProjetoCamali/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatHandlers contains the student/advisor chat HTTP handlers
type ChatHandlers struct {
	chatService *services.ChatService
	logger      *logging.ChanneledLogger
}

// NewChatHandlers creates chat handlers with injected dependencies
func NewChatHandlers(chatService *services.ChatService, logger *logging.ChanneledLogger) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
		logger:      logger,
	}
}

// GetMessages handles GET /api/v1/chat/:roomId/messages - room transcript
func (h *ChatHandlers) GetMessages(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	roomID := c.Param("roomId")

	if !canAccessRoom(session, roomID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this conversation"})
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type inboundChatMessage struct {
	Text string `json:"text"`
}

// GetWebsocket handles GET /api/v1/chat/:roomId/ws - live conversation.
// The full transcript is pushed on connect and after every new message;
// inbound frames carry the text to send.
func (h *ChatHandlers) GetWebsocket(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	roomID := c.Param("roomId")

	if !canAccessRoom(session, roomID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this conversation"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Chat().Error("Websocket upgrade failed", "error", err, "roomId", roomID)
		return
	}
	defer conn.Close()

	outbound := make(chan []chat.Message, 8)
	disposer, err := h.chatService.Subscribe(roomID, func(messages []chat.Message, err error) {
		if err != nil {
			h.logger.Chat().Warn("Chat requery failed, keeping last transcript", "error", err, "roomId", roomID)
			return
		}
		select {
		case outbound <- messages:
		default:
			h.logger.Chat().Warn("Chat outbound buffer full, snapshot dropped", "roomId", roomID)
		}
	})
	if err != nil {
		h.logger.Chat().Error("Chat subscription failed", "error", err, "roomId", roomID)
		return
	}
	defer disposer.Dispose()

	h.logger.Chat().Info("Chat connection established", "roomId", roomID, "userId", session.UserID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for messages := range outbound {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(gin.H{"messages": messages}); err != nil {
				return
			}
		}
	}()

	for {
		var inbound inboundChatMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if _, err := h.chatService.Send(c.Request.Context(), roomID, session, inbound.Text); err != nil {
			h.logger.Chat().Warn("Chat send rejected", "error", err, "roomId", roomID, "userId", session.UserID)
		}
	}

	// No delivery happens after Dispose returns, so closing is safe.
	disposer.Dispose()
	close(outbound)
	<-done
	h.logger.Chat().Info("Chat connection closed", "roomId", roomID, "userId", session.UserID)
}

// canAccessRoom allows students into their own room and advisors everywhere.
func canAccessRoom(session *security.Session, roomID string) bool {
	if session == nil {
		return false
	}
	if session.Role == user.RoleAdvisor {
		return true
	}
	return session.UserID == roomID
}
