package relay

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Submit runs one inbound chat message through validate -> persist ->
// fan-out -> ack -> notify. A failure before the persist checkpoint aborts
// with an error for the sender only; once the message is saved, notification
// failures are logged and never roll it back.
//
// The broadcast includes the sender so their other open connections stay in
// sync; the explicit messageSuccess ack goes to the originating connection
// only. Every other participant gets a notification regardless of whether
// they are currently watching the room.
func (r *Relay) Submit(ctx context.Context, c *Client, p *SendMessagePayload) *EventError {
	if p.ConversationID == "" || p.SenderID == "" {
		return validationErr("conversationId and senderId are required")
	}
	if p.Content == "" && p.File == "" {
		return validationErr("message needs content or a file")
	}

	msg := &Message{
		ID:             uuid.NewString(),
		ConversationID: p.ConversationID,
		SenderID:       p.SenderID,
		Type:           MessageText,
		Content:        p.Content,
		CreatedAt:      time.Now(),
	}
	if p.File != "" {
		msg.Type = MessageFile
		msg.Content = p.File
	}

	if err := r.store.CreateMessage(ctx, msg); err != nil {
		return persistenceErr("could not save message", err)
	}

	r.Broadcast(ConversationRoom(p.ConversationID), EventMessageBroadcast,
		&MessageBroadcastPayload{ConversationID: p.ConversationID, Message: *msg}, "")
	r.sendEvent(c, EventMessageSuccess, msg)

	participants, err := r.store.ListConversationParticipants(ctx, p.ConversationID)
	if err != nil {
		log.Printf("relay: participants lookup for %s failed, notifications skipped: %v", p.ConversationID, err)
		return nil
	}
	for _, userID := range participants {
		if userID == p.SenderID {
			continue
		}
		if err := r.Dispatch(ctx, userID, "message", "New message", msg.Content, "/conversations/"+p.ConversationID); err != nil {
			log.Printf("relay: notification for %s failed: %v", userID, err)
		}
	}
	return nil
}

// MarkRead flips every unread message in the conversation authored by
// someone other than the reader, notifying each author's private room once
// per transitioned message. Calling it again when everything is already
// read does nothing and emits nothing.
func (r *Relay) MarkRead(ctx context.Context, conversationID, readerUserID string) *EventError {
	if conversationID == "" || readerUserID == "" {
		return validationErr("conversationId and userId are required")
	}
	msgs, err := r.store.ListMessages(ctx, conversationID)
	if err != nil {
		return persistenceErr("could not load conversation", err)
	}
	for _, msg := range msgs {
		if msg.Read || msg.SenderID == readerUserID {
			continue
		}
		if err := r.store.UpdateMessageRead(ctx, msg.ID, true); err != nil {
			log.Printf("relay: marking message %s read failed: %v", msg.ID, err)
			continue
		}
		r.Broadcast(UserRoom(msg.SenderID), EventMessageRead, &MessageReadPayload{
			ConversationID: conversationID,
			MessageID:      msg.ID,
			ReaderUserID:   readerUserID,
		}, "")
	}
	return nil
}

// Typing relays a typing indicator to everyone else in the conversation
// room. Nothing is persisted and nothing is acknowledged; the receiving
// client clears the indicator on its own timer.
func (r *Relay) Typing(c *Client, event string, p *TypingPayload) *EventError {
	if p.ConversationID == "" || p.UserID == "" {
		return validationErr("conversationId and userId are required")
	}
	r.Broadcast(ConversationRoom(p.ConversationID), event, p, c.ID)
	return nil
}
