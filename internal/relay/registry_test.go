package relay_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/scribely/scribely-realtime/internal/relay"
)

func TestBindUser_FirstConnectionComesOnline(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)

	c := connect(r)
	if r.IsOnline("alice") {
		t.Fatal("alice online before binding")
	}
	bound, cameOnline := r.BindUser(c, "alice")
	if !bound || !cameOnline {
		t.Fatalf("first bind = (%v, %v), want bound and coming online", bound, cameOnline)
	}
	if !r.IsOnline("alice") {
		t.Fatal("alice should be online after binding")
	}
	if got := len(r.ConnectionsFor("alice")); got != 1 {
		t.Fatalf("ConnectionsFor = %d connections, want 1", got)
	}
}

func TestBindUser_SecondConnectionDoesNotReOnline(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)

	c1, c2 := connect(r), connect(r)
	r.BindUser(c1, "alice")
	bound, cameOnline := r.BindUser(c2, "alice")
	if !bound || cameOnline {
		t.Fatalf("second bind = (%v, %v), want bound without a fresh online transition", bound, cameOnline)
	}
	if got := len(r.ConnectionsFor("alice")); got != 2 {
		t.Fatalf("ConnectionsFor = %d connections, want 2", got)
	}
}

func TestBindUser_IdempotentPerConnection(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)

	c := connect(r)
	r.BindUser(c, "alice")
	bound, cameOnline := r.BindUser(c, "alice")
	if !bound || cameOnline {
		t.Fatalf("repeat bind = (%v, %v), want still bound with no transition", bound, cameOnline)
	}
	if got := len(r.ConnectionsFor("alice")); got != 1 {
		t.Fatalf("ConnectionsFor = %d connections, want 1", got)
	}
}

func TestBindUser_RebindToDifferentUserIgnored(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)

	c := connect(r)
	r.BindUser(c, "alice")
	bound, cameOnline := r.BindUser(c, "mallory")
	if bound || cameOnline {
		t.Fatalf("rebind = (%v, %v), want refused outright", bound, cameOnline)
	}
	if r.IsOnline("mallory") {
		t.Fatal("mallory must not appear online through alice's connection")
	}
	if !r.IsOnline("alice") {
		t.Fatal("alice must remain online")
	}
}

func TestBindUser_UnknownConnectionIsNoOp(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)

	c := r.NewClient(nil) // never registered
	bound, cameOnline := r.BindUser(c, "ghost")
	if bound || cameOnline {
		t.Fatalf("bind = (%v, %v), want refused for an unregistered connection", bound, cameOnline)
	}
	if r.IsOnline("ghost") {
		t.Fatal("ghost must stay offline")
	}
}

func TestDisconnect_LastConnectionGoesOffline(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)

	c1, c2 := connect(r), connect(r)
	r.BindUser(c1, "alice")
	r.BindUser(c2, "alice")

	r.Disconnect(c1)
	if !r.IsOnline("alice") {
		t.Fatal("alice still has a live connection, must stay online")
	}
	r.Disconnect(c2)
	if r.IsOnline("alice") {
		t.Fatal("alice must be offline after her last connection closes")
	}
	if got := len(r.ConnectionsFor("alice")); got != 0 {
		t.Fatalf("ConnectionsFor = %d connections, want 0", got)
	}
}

func TestDisconnect_SecondInvocationIsNoOp(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)

	c := connect(r)
	r.BindUser(c, "alice")
	r.Disconnect(c)
	r.Disconnect(c) // must not panic on the already-closed send channel
}

// A disconnected client's send channel is closed for good; re-registering
// it must be refused, or a later room broadcast would panic on the closed
// channel.
func TestConnect_RefusesClosedClient(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)
	room := relay.ConversationRoom("c1")

	c := connect(r)
	r.BindUser(c, "alice")
	r.Join(c, room)
	r.Disconnect(c)

	r.Connect(c)
	r.Join(c, room)
	r.Broadcast(room, relay.EventTyping, &relay.TypingPayload{ConversationID: "c1", UserID: "x"}, "")

	if r.IsOnline("alice") {
		t.Fatal("a refused re-registration must not resurrect alice's presence")
	}
	if got := r.MembersOf(room); len(got) != 0 {
		t.Fatalf("room members = %v, want none after a refused re-registration", got)
	}
}

// The online set must contain a user exactly when they have at least one
// live connection, across any interleaving of connects and disconnects.
func TestOnlineSetInvariant_RandomInterleavings(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	r := newRelay(relay.NewMemStore(), 16)

	users := []string{"u0", "u1", "u2", "u3", "u4"}
	live := map[string][]*relay.Client{}

	for step := 0; step < 500; step++ {
		user := users[rng.Intn(len(users))]
		if rng.Intn(2) == 0 || len(live[user]) == 0 {
			c := connect(r)
			r.BindUser(c, user)
			live[user] = append(live[user], c)
		} else {
			idx := rng.Intn(len(live[user]))
			r.Disconnect(live[user][idx])
			live[user] = append(live[user][:idx], live[user][idx+1:]...)
		}

		for _, u := range users {
			wantOnline := len(live[u]) > 0
			if got := r.IsOnline(u); got != wantOnline {
				t.Fatalf("step %d: IsOnline(%s) = %v, want %v", step, u, got, wantOnline)
			}
			if got := len(r.ConnectionsFor(u)); got != len(live[u]) {
				t.Fatalf("step %d: ConnectionsFor(%s) = %d, want %d", step, u, got, len(live[u]))
			}
		}
	}
}

func TestOnlineUsers_SortedSnapshot(t *testing.T) {
	r := newRelay(relay.NewMemStore(), 16)

	for _, user := range []string{"carol", "alice", "bob"} {
		r.BindUser(connect(r), user)
	}
	got := r.OnlineUsers()
	want := []string{"alice", "bob", "carol"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("OnlineUsers() = %v, want %v", got, want)
	}
}
