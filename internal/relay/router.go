package relay

import (
	"context"
	"encoding/json"
	"log"
)

// Route dispatches one decoded envelope to the matching handler. The set of
// inbound events is closed: anything else is answered with a validation
// error. Handler failures are translated into an error event for the
// originating connection only; nothing here can take down the process.
//
// Persistence runs under context.Background() on purpose: once a submit has
// started, the sender disconnecting must not cancel the write.
func (r *Relay) Route(c *Client, env *Envelope) {
	var err *EventError
	switch env.Event {
	case EventJoinUserRoom:
		err = r.handleJoinUserRoom(c, env.Data)
	case EventJoinChat:
		err = r.handleJoinChat(c, env.Data)
	case EventLeaveChat:
		err = r.handleLeaveChat(c, env.Data)
	case EventTyping, EventStopTyping:
		var p TypingPayload
		if err = decode(env.Data, &p); err == nil {
			err = r.Typing(c, env.Event, &p)
		}
	case EventSendMessage:
		var p SendMessagePayload
		if err = decode(env.Data, &p); err == nil {
			err = r.Submit(context.Background(), c, &p)
		}
	case EventMarkMessagesRead:
		var p MarkReadPayload
		if err = decode(env.Data, &p); err == nil {
			err = r.MarkRead(context.Background(), p.ConversationID, p.UserID)
		}
	case EventCheckOnlineStatus:
		var p CheckOnlinePayload
		if err = decode(env.Data, &p); err == nil {
			r.sendEvent(c, EventOnlineStatuses, &OnlineStatusesPayload{Statuses: r.BulkStatus(p.UserIDs)})
		}
	case EventGetOnlineUsers:
		r.sendEvent(c, EventOnlineUsersList, &OnlineUsersPayload{UserIDs: r.OnlineUsers()})
	case EventSendNotification:
		var p SendNotificationPayload
		if err = decode(env.Data, &p); err == nil {
			err = r.handleSendNotification(c, &p)
		}
	default:
		err = validationErr("unknown event %q", env.Event)
	}

	if err != nil {
		log.Printf("relay: %s from connection %s failed: %v", env.Event, c.ID, err)
		r.sendEvent(c, EventMessageError, &ErrorPayload{Event: env.Event, Kind: err.Kind.String(), Reason: err.Reason})
	}
}

func (r *Relay) handleJoinUserRoom(c *Client, data json.RawMessage) *EventError {
	var p JoinUserRoomPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if p.UserID == "" {
		return validationErr("userId is required")
	}
	bound, cameOnline := r.BindUser(c, p.UserID)
	if !bound {
		return validationErr("connection is already bound to a different user")
	}
	r.Join(c, UserRoom(p.UserID))
	r.sendEvent(c, EventJoinedUserRoom, &UserPresencePayload{UserID: p.UserID})
	if cameOnline {
		r.broadcastPresence(EventUserOnline, p.UserID)
	}
	return nil
}

func (r *Relay) handleJoinChat(c *Client, data json.RawMessage) *EventError {
	var p ChatRoomPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if p.ConversationID == "" {
		return validationErr("conversationId is required")
	}
	r.Join(c, ConversationRoom(p.ConversationID))
	r.sendEvent(c, EventJoinedChat, &p)
	return nil
}

func (r *Relay) handleLeaveChat(c *Client, data json.RawMessage) *EventError {
	var p ChatRoomPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if p.ConversationID == "" {
		return validationErr("conversationId is required")
	}
	r.Leave(c, ConversationRoom(p.ConversationID))
	return nil
}

func (r *Relay) handleSendNotification(c *Client, p *SendNotificationPayload) *EventError {
	if p.UserID == "" || p.Type == "" {
		return validationErr("userId and type are required")
	}
	if err := r.Dispatch(context.Background(), p.UserID, p.Type, p.Title, p.Body, p.Link); err != nil {
		return persistenceErr("could not save notification", err)
	}
	return nil
}

func decode(data json.RawMessage, into any) *EventError {
	if len(data) == 0 {
		return validationErr("missing payload")
	}
	if err := json.Unmarshal(data, into); err != nil {
		return &EventError{Kind: KindValidation, Reason: "malformed payload", Err: err}
	}
	return nil
}
