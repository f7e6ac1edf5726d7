// Package messaging provides the concrete implementation of the SSE broadcaster.
package messaging

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
)

// SSEBroadcaster manages per-user SSE connections for live journal updates.
type SSEBroadcaster struct {
	userClients map[string][]chan string // userId -> []channels
	mu          sync.Mutex
	logger      *logging.ChanneledLogger
}

var (
	globalBroadcaster *SSEBroadcaster
	once              sync.Once
)

// NewSSEBroadcaster creates the singleton SSEBroadcaster instance.
func NewSSEBroadcaster(logger *logging.ChanneledLogger) *SSEBroadcaster {
	once.Do(func() {
		globalBroadcaster = &SSEBroadcaster{
			userClients: make(map[string][]chan string),
			logger:      logger,
		}
	})
	return globalBroadcaster
}

// AddClient registers a new SSE client for a user.
func (b *SSEBroadcaster) AddClient(userID string) chan string {
	ch := make(chan string, 10)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.userClients[userID] = append(b.userClients[userID], ch)

	b.logger.SSE().Debug("SSE client registered", "userId", userID)
	return ch
}

// RemoveClient removes an SSE client for a user.
func (b *SSEBroadcaster) RemoveClient(ch chan string, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if clients, exists := b.userClients[userID]; exists {
		newClients := make([]chan string, 0, len(clients))
		for _, client := range clients {
			if client != ch {
				newClients = append(newClients, client)
			}
		}
		b.userClients[userID] = newClients

		if len(b.userClients[userID]) == 0 {
			delete(b.userClients, userID)
		}
	}
	b.logger.SSE().Debug("SSE client unregistered", "userId", userID)
}

// GetConnectionCount returns the live connection count for a user.
func (b *SSEBroadcaster) GetConnectionCount(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.userClients[userID])
}

// BroadcastJournalUpdate pushes a journal_updated event to all of a user's
// open streams. Payload is the JSON-encoded journal snapshot.
func (b *SSEBroadcaster) BroadcastJournalUpdate(userID string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.SSE().Error("Panic recovered in BroadcastJournalUpdate", "error", r, "userId", userID)
		}
	}()

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.SSE().Error("Failed to encode journal update", "error", err, "userId", userID)
		return
	}
	message := fmt.Sprintf("event: journal_updated\ndata: %s\n\n", data)

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.userClients[userID] {
		select {
		case ch <- message:
		default:
			b.logger.SSE().Warn("SSE channel full, message dropped", "userId", userID)
		}
	}
}

// BroadcastError pushes a journal_error event so clients can surface a
// fetch failure without tearing down the stream.
func (b *SSEBroadcaster) BroadcastError(userID string, reason string) {
	encoded, _ := json.Marshal(map[string]string{"error": reason})
	message := fmt.Sprintf("event: journal_error\ndata: %s\n\n", encoded)

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.userClients[userID] {
		select {
		case ch <- message:
		default:
			b.logger.SSE().Warn("SSE channel full, error dropped", "userId", userID)
		}
	}
}
