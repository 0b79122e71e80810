// Package relay implements the real-time presence and messaging core of the
// marketplace: per-connection lifecycle, room membership, presence tracking,
// chat message fan-out, and notification dispatch.
package relay

import (
	"log"
	"sync"
)

// Relay owns every live connection and all room/presence state. One instance
// is constructed at process start and shared by the transport handlers.
//
// All shared maps are guarded by a single lock; nothing is ever acquired
// while it is held, and persistence calls always happen outside it.
type Relay struct {
	store      Store
	sendBuffer int

	mu        sync.RWMutex
	conns     map[string]*Client            // connectionId -> client
	online    map[string]map[string]bool    // userId -> set(connectionId)
	roomConns map[RoomID]map[string]*Client // room -> connectionId -> client
	connRooms map[string]map[RoomID]bool    // connectionId -> set(room)
}

func New(store Store, cfg *Config) *Relay {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Relay{
		store:      store,
		sendBuffer: cfg.SendBuffer,
		conns:      map[string]*Client{},
		online:     map[string]map[string]bool{},
		roomConns:  map[RoomID]map[string]*Client{},
		connRooms:  map[string]map[RoomID]bool{},
	}
}

// Store exposes the persistence collaborator for the read-side HTTP API.
func (r *Relay) Store() Store { return r.store }

// NewClient creates a client sized to the relay's configured send buffer.
func (r *Relay) NewClient(conn ConnLike) *Client {
	return NewClient(conn, r.sendBuffer)
}

// Connect registers a fresh, not-yet-authenticated connection. No-op if the
// connection is already registered. A client that has been through
// Disconnect is refused: its send channel is closed for good, so putting it
// back into the maps would make a later send panic.
func (r *Relay) Connect(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[c.ID]; ok {
		return
	}
	if c.closed {
		log.Printf("relay: refusing to re-register closed connection %s", c.ID)
		return
	}
	r.conns[c.ID] = c
	r.connRooms[c.ID] = map[RoomID]bool{}
	log.Printf("relay: connection %s registered (%d total)", c.ID, len(r.conns))
}

// Disconnect tears down one connection: every joined room is left, the
// online set is trimmed, and the send channel is closed so the write pump
// exits. Safe to call more than once; only the first call does work, so a
// close event and an error event racing on the same connection cannot run
// the cleanup twice.
func (r *Relay) Disconnect(c *Client) {
	r.mu.Lock()
	if _, ok := r.conns[c.ID]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, c.ID)
	c.closed = true

	for room := range r.connRooms[c.ID] {
		if members, ok := r.roomConns[room]; ok {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(r.roomConns, room)
			}
		}
	}
	delete(r.connRooms, c.ID)

	wentOffline := false
	if c.userID != "" {
		if set, ok := r.online[c.userID]; ok {
			delete(set, c.ID)
			if len(set) == 0 {
				delete(r.online, c.userID)
				wentOffline = true
			}
		}
	}
	remaining := len(r.conns)
	r.mu.Unlock()

	close(c.Send)
	log.Printf("relay: connection %s unregistered (%d total)", c.ID, remaining)

	if wentOffline {
		r.broadcastPresence(EventUserOffline, c.userID)
	}
}

// trySend queues a frame for one connection without blocking. Returns false
// when the connection is gone or its buffer is full; the frame is dropped
// either way. Holding the read lock for the duration keeps a racing
// Disconnect from closing the channel mid-send.
func (r *Relay) trySend(c *Client, payload []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.conns[c.ID]; !ok || c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// sendEvent delivers a single event to one connection, logging drops.
func (r *Relay) sendEvent(c *Client, event string, data any) {
	if !r.trySend(c, marshalEvent(event, data)) {
		log.Printf("relay: dropped %s for connection %s", event, c.ID)
	}
}
