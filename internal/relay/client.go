package relay

import (
	"encoding/json"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// ConnLike is the slice of a websocket connection the relay needs.
// Keeps the core testable without a live socket.
type ConnLike interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

// Client is one live transport connection. UserID stays empty until the
// client sends joinUserRoom; all other fields are set at construction.
// Mutable state (userID binding, closed flag, room membership) is owned by
// the Relay and guarded by its lock.
type Client struct {
	ID   string
	Conn ConnLike
	Send chan []byte

	userID string
	closed bool
}

// NewClient wraps a transport connection. The send channel is buffered so a
// slow reader does not stall fan-out; a client that overflows it has frames
// dropped and is expected to reconnect.
func NewClient(conn ConnLike, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}

// ReadPump consumes inbound frames and hands each one to the relay's
// router. Frames are handled one at a time, so broadcasts issued by this
// connection reach a room in the order they were sent. Returns when the
// transport closes for any reason; the caller is responsible for running
// Disconnect afterwards.
func (c *Client) ReadPump(r *Relay) {
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("relay: dropping unparseable frame from %s: %v", c.ID, err)
			continue
		}
		r.Route(c, &env)
	}
}

// WritePump drains the send channel onto the transport. Exits when the
// channel is closed by Disconnect.
func (c *Client) WritePump() {
	for data := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("relay: write to %s failed: %v", c.ID, err)
		}
	}
	_ = c.Conn.Close()
}
