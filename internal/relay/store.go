package relay

import (
	"context"
	"time"
)

// MessageType distinguishes plain text messages from file attachments.
type MessageType string

const (
	MessageText MessageType = "text"
	MessageFile MessageType = "file"
)

// Message is the persisted chat message record. Immutable once created
// except for Read, which transitions false to true exactly once per message.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	SenderID       string      `json:"senderId"`
	Type           MessageType `json:"type"`
	Content        string      `json:"content"`
	Read           bool        `json:"read"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Notification is the persisted notification record. Its lifecycle is
// independent from Message: one message may produce zero or many of these.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the persistence collaborator consumed by the relay. The relay
// only needs these operations to reason about delivery; schema and real
// storage live with the owning service.
type Store interface {
	CreateMessage(ctx context.Context, msg *Message) error
	UpdateMessageRead(ctx context.Context, messageID string, read bool) error
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	ListConversationParticipants(ctx context.Context, conversationID string) ([]string, error)

	CreateNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, userID string) ([]Notification, error)
	UnreadNotificationCount(ctx context.Context, userID string) (int, error)
	MarkNotificationsRead(ctx context.Context, userID string) error
}
