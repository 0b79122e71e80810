package relay

import "log"

// IsOnline reports whether a user has at least one live connection.
func (r *Relay) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.online[userID]) > 0
}

// BulkStatus answers an online check for many users at once. Clients use
// this to reconcile presence after a reconnect, since transition events are
// best-effort and may be missed in between.
func (r *Relay) BulkStatus(userIDs []string) map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		out[id] = len(r.online[id]) > 0
	}
	return out
}

// broadcastPresence pushes a userOnline/userOffline transition to every
// other bound connection. Not persisted; a drop here is acceptable.
func (r *Relay) broadcastPresence(event, userID string) {
	payload := marshalEvent(event, &UserPresencePayload{UserID: userID})
	for _, c := range r.boundConnections(userID) {
		if !r.trySend(c, payload) {
			log.Printf("relay: dropped %s(%s) for connection %s", event, userID, c.ID)
		}
	}
}
