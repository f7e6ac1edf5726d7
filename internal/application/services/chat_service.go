package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/chat"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/security"
)

// ChatService handles the student/advisor conversation rooms. A room is keyed
// by the student's id; both sides write into the same message collection.
type ChatService struct {
	store  docstore.Store
	logger *logging.ChanneledLogger
}

// NewChatService creates a new chat service.
func NewChatService(store docstore.Store, logger *logging.ChanneledLogger) *ChatService {
	return &ChatService{store: store, logger: logger}
}

// History loads a room's messages in chronological order.
func (c *ChatService) History(ctx context.Context, roomID string) ([]chat.Message, error) {
	docs, err := c.store.Query(ctx, roomQuery(roomID))
	if err != nil {
		c.logger.Chat().Error("Chat history fetch failed", "error", err, "roomId", roomID)
		return nil, err
	}
	return messagesFromDocs(roomID, docs), nil
}

// Send appends a message to a room on behalf of the session user.
func (c *ChatService) Send(ctx context.Context, roomID string, sender *security.Session, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty message")
	}

	id, err := c.store.Create(ctx, chat.CollectionFor(roomID), map[string]any{
		"text":        text,
		"senderId":    sender.UserID,
		"senderEmail": sender.Email,
		"createdAt":   time.Now().UTC(),
	})
	if err != nil {
		c.logger.Chat().Error("Chat send failed", "error", err, "roomId", roomID, "senderId", sender.UserID)
		return "", err
	}

	c.logger.Chat().Debug("Message sent", "roomId", roomID, "messageId", id, "senderId", sender.UserID)
	return id, nil
}

// Subscribe delivers the full room transcript on every new message.
func (c *ChatService) Subscribe(roomID string, fn func(messages []chat.Message, err error)) (docstore.Disposer, error) {
	return c.store.Subscribe(roomQuery(roomID), func(docs []docstore.Document, err error) {
		if err != nil {
			fn(nil, err)
			return
		}
		fn(messagesFromDocs(roomID, docs), nil)
	})
}

func roomQuery(roomID string) docstore.Query {
	return docstore.Query{
		Collection: chat.CollectionFor(roomID),
		TimeField:  "createdAt",
		Order:      docstore.OrderAsc,
	}
}

func messagesFromDocs(roomID string, docs []docstore.Document) []chat.Message {
	messages := make([]chat.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, chat.FromFields(roomID, d.ID, d.Fields))
	}
	return messages
}
