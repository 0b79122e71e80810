package relay_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/scribely/scribely-realtime/internal/relay"
)

func newRelay(store relay.Store, sendBuffer int) *relay.Relay {
	return relay.New(store, &relay.Config{Addr: "127.0.0.1:0", SendBuffer: sendBuffer})
}

// connect registers a bare, unbound connection.
func connect(r *relay.Relay) *relay.Client {
	c := r.NewClient(nil)
	r.Connect(c)
	return c
}

// connectUser registers a connection, binds it via joinUserRoom, and drains
// the joinedUserRoom ack so tests start from a quiet channel.
func connectUser(t *testing.T, r *relay.Relay, userID string) *relay.Client {
	t.Helper()
	c := connect(r)
	route(t, r, c, relay.EventJoinUserRoom, relay.JoinUserRoomPayload{UserID: userID})
	nextEvent(t, c, relay.EventJoinedUserRoom)
	return c
}

// route builds an envelope and dispatches it the way ReadPump would.
func route(t *testing.T, r *relay.Relay, c *relay.Client, event string, payload any) {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", event, err)
		}
		raw = b
	}
	r.Route(c, &relay.Envelope{Event: event, Data: raw})
}

// nextEvent pulls the next outbound frame and asserts its event name.
func nextEvent(t *testing.T, c *relay.Client, want string) json.RawMessage {
	t.Helper()
	select {
	case data := <-c.Send:
		var env relay.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("unparseable outbound frame: %v", err)
		}
		if env.Event != want {
			t.Fatalf("got event %q, want %q", env.Event, want)
		}
		return env.Data
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %q", want)
		return nil
	}
}

// noEvent asserts the connection receives nothing for a short window.
func noEvent(t *testing.T, c *relay.Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected outbound frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

// drainCounts empties the send channel and tallies frames by event name.
func drainCounts(t *testing.T, c *relay.Client) map[string]int {
	t.Helper()
	counts := map[string]int{}
	for {
		select {
		case data := <-c.Send:
			var env relay.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				t.Fatalf("unparseable outbound frame: %v", err)
			}
			counts[env.Event]++
		default:
			return counts
		}
	}
}

func decodeInto(t *testing.T, data json.RawMessage, into any) {
	t.Helper()
	if err := json.Unmarshal(data, into); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
}
