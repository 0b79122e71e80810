package relay

import (
	"log"
	"sort"
)

// BindUser associates a registered connection with a trusted user identity
// and records it in the online set. Idempotent per connection. bound reports
// whether the connection is now (or already was) bound to the requested
// user; callers must not treat the connection as that user's when it is
// false. cameOnline is true only for the user's first live connection.
// Binding an unknown connection (already disconnected) and rebinding a
// bound connection to a different user are both logged refusals.
func (r *Relay) BindUser(c *Client, userID string) (bound, cameOnline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[c.ID]; !ok {
		log.Printf("relay: bind %s to unknown connection %s ignored", userID, c.ID)
		return false, false
	}
	if c.userID == userID {
		return true, false
	}
	if c.userID != "" {
		log.Printf("relay: connection %s already bound to %s, rebind to %s ignored", c.ID, c.userID, userID)
		return false, false
	}
	c.userID = userID
	set, ok := r.online[userID]
	if !ok {
		set = map[string]bool{}
		r.online[userID] = set
	}
	set[c.ID] = true
	return true, len(set) == 1
}

// ConnectionsFor returns a snapshot of the user's live connections. Empty
// means offline; callers must tolerate that without error.
func (r *Relay) ConnectionsFor(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.online[userID]
	out := make([]*Client, 0, len(set))
	for connID := range set {
		if c, ok := r.conns[connID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// OnlineUsers returns the sorted ids of every user with at least one live
// connection.
func (r *Relay) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.online))
	for userID := range r.online {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out
}

// boundConnections snapshots every connection with a user identity, used
// for presence fan-out. Connections bound to skipUserID are excluded.
func (r *Relay) boundConnections(skipUserID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		if c.userID == "" || c.userID == skipUserID {
			continue
		}
		out = append(out, c)
	}
	return out
}
