package relay

import "encoding/json"

// Inbound event names accepted by the router.
const (
	EventJoinUserRoom      = "joinUserRoom"
	EventJoinChat          = "joinChat"
	EventLeaveChat         = "leaveChat"
	EventTyping            = "typing"
	EventStopTyping        = "stopTyping"
	EventSendMessage       = "sendMessage"
	EventMarkMessagesRead  = "markMessagesAsRead"
	EventCheckOnlineStatus = "checkOnlineStatus"
	EventGetOnlineUsers    = "getOnlineUsers"
	EventSendNotification  = "sendNotification"
)

// Outbound event names produced by the relay.
const (
	EventJoinedUserRoom   = "joinedUserRoom"
	EventJoinedChat       = "joinedChat"
	EventUserOnline       = "userOnline"
	EventUserOffline      = "userOffline"
	EventMessageBroadcast = "messageBroadcast"
	EventMessageSuccess   = "messageSuccess"
	EventMessageError     = "messageError"
	EventMessageRead      = "messageRead"
	EventNewNotification  = "newNotification"
	EventOnlineStatuses   = "onlineStatuses"
	EventOnlineUsersList  = "onlineUsersList"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinUserRoomPayload struct {
	UserID string `json:"userId"`
}

type ChatRoomPayload struct {
	ConversationID string `json:"conversationId"`
}

type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

type SendMessagePayload struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Content        string `json:"content,omitempty"`
	File           string `json:"file,omitempty"`
}

type MarkReadPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

type CheckOnlinePayload struct {
	UserIDs []string `json:"userIds"`
}

type SendNotificationPayload struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Link   string `json:"link,omitempty"`
}

type MessageBroadcastPayload struct {
	ConversationID string  `json:"conversationId"`
	Message        Message `json:"message"`
}

type MessageReadPayload struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
	ReaderUserID   string `json:"readerUserId"`
}

type UserPresencePayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Event  string `json:"event"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

type OnlineStatusesPayload struct {
	Statuses map[string]bool `json:"statuses"`
}

type OnlineUsersPayload struct {
	UserIDs []string `json:"userIds"`
}

// marshalEvent wraps data into an Envelope and marshals it. Payload types
// above never fail to marshal, so the error is swallowed the same way the
// rest of the write path treats undeliverable frames.
func marshalEvent(event string, data any) []byte {
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	b, _ := json.Marshal(&Envelope{Event: event, Data: raw})
	return b
}
