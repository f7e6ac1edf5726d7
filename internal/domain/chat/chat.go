// Package chat defines the advisor/student chat entities. Rooms are keyed by
// the student's user id; both participants write into the same room.
package chat

import "time"

// Message is one chat message inside a room.
type Message struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	Text        string    `json:"text"`
	SenderID    string    `json:"senderId"`
	SenderEmail string    `json:"senderEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CollectionFor returns the message collection path for a room, mirroring the
// client's chats/{studentId}/messages layout.
func CollectionFor(roomID string) string {
	return "chats/" + roomID + "/messages"
}

// FromFields hydrates a message from a schemaless document.
func FromFields(roomID, id string, fields map[string]any) Message {
	m := Message{ID: id, RoomID: roomID}
	m.Text, _ = fields["text"].(string)
	m.SenderID, _ = fields["senderId"].(string)
	m.SenderEmail, _ = fields["senderEmail"].(string)
	if t, ok := fields["createdAt"].(time.Time); ok {
		m.CreatedAt = t
	} else if s, ok := fields["createdAt"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			m.CreatedAt = parsed
		}
	}
	return m
}
