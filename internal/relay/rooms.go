package relay

import (
	"log"
	"sort"
)

// RoomID names a broadcast group. Rooms are computed, not persisted; the
// membership maps below are their only state. The two constructors keep the
// user and conversation key spaces from colliding.
type RoomID string

// UserRoom is the private room implicitly owned by one user, used for
// notifications and read receipts addressed to them.
func UserRoom(userID string) RoomID { return RoomID("user:" + userID) }

// ConversationRoom is the chat room for one conversation.
func ConversationRoom(conversationID string) RoomID {
	return RoomID("conversation:" + conversationID)
}

// Join adds a connection to a room. Idempotent; joining from an unknown
// connection (disconnect race) is a no-op.
func (r *Relay) Join(c *Client, room RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms, ok := r.connRooms[c.ID]
	if !ok {
		return
	}
	rooms[room] = true
	members, ok := r.roomConns[room]
	if !ok {
		members = map[string]*Client{}
		r.roomConns[room] = members
	}
	members[c.ID] = c
}

// Leave removes a connection from a room. Idempotent; no error if the
// connection was never a member.
func (r *Relay) Leave(c *Client, room RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rooms, ok := r.connRooms[c.ID]; ok {
		delete(rooms, room)
	}
	if members, ok := r.roomConns[room]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(r.roomConns, room)
		}
	}
}

// MembersOf returns the sorted user ids currently represented in a room.
// Unbound connections are not counted.
func (r *Relay) MembersOf(room RoomID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	for _, c := range r.roomConns[room] {
		if c.userID != "" {
			seen[c.userID] = true
		}
	}
	out := make([]string, 0, len(seen))
	for userID := range seen {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out
}

// Broadcast fans one event out to every live member of a room, optionally
// excluding the sending connection. Delivery is fire-and-forget per
// connection: a full buffer or a racing disconnect drops that one recipient
// and the rest of the room still gets the event.
func (r *Relay) Broadcast(room RoomID, event string, data any, excludeConnID string) {
	payload := marshalEvent(event, data)

	r.mu.RLock()
	members := make([]*Client, 0, len(r.roomConns[room]))
	for _, c := range r.roomConns[room] {
		members = append(members, c)
	}
	r.mu.RUnlock()

	for _, c := range members {
		if c.ID == excludeConnID {
			continue
		}
		if !r.trySend(c, payload) {
			log.Printf("relay: dropped %s for connection %s in room %s", event, c.ID, room)
		}
	}
}
