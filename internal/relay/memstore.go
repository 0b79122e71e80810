package relay

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory Store used by tests and single-process
// deployments. The marketplace backend swaps in its own implementation.
type MemStore struct {
	mu            sync.RWMutex
	messages      map[string][]*Message      // conversationId -> messages in arrival order
	byID          map[string]*Message        // messageId -> message
	notifications map[string][]*Notification // userId -> notifications in arrival order
	participants  map[string]map[string]bool // conversationId -> set(userId)
}

func NewMemStore() *MemStore {
	return &MemStore{
		messages:      map[string][]*Message{},
		byID:          map[string]*Message{},
		notifications: map[string][]*Notification{},
		participants:  map[string]map[string]bool{},
	}
}

// SetParticipants seeds the membership of a conversation. Message senders
// are added automatically on CreateMessage.
func (s *MemStore) SetParticipants(conversationID string, userIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureParticipants(conversationID)
	for _, id := range userIDs {
		s.participants[conversationID][id] = true
	}
}

func (s *MemStore) ensureParticipants(conversationID string) {
	if _, ok := s.participants[conversationID]; !ok {
		s.participants[conversationID] = map[string]bool{}
	}
}

func (s *MemStore) CreateMessage(_ context.Context, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *msg
	s.messages[cp.ConversationID] = append(s.messages[cp.ConversationID], &cp)
	s.byID[cp.ID] = &cp
	s.ensureParticipants(cp.ConversationID)
	s.participants[cp.ConversationID][cp.SenderID] = true
	return nil
}

func (s *MemStore) UpdateMessageRead(_ context.Context, messageID string, read bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.byID[messageID]
	if !ok {
		return fmt.Errorf("message %s not found", messageID)
	}
	msg.Read = read
	return nil
}

func (s *MemStore) ListMessages(_ context.Context, conversationID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, 0, len(s.messages[conversationID]))
	for _, m := range s.messages[conversationID] {
		out = append(out, *m)
	}
	return out, nil
}

func (s *MemStore) ListConversationParticipants(_ context.Context, conversationID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.participants[conversationID]))
	for id := range s.participants[conversationID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemStore) CreateNotification(_ context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notifications[cp.UserID] = append(s.notifications[cp.UserID], &cp)
	return nil
}

// ListNotifications returns the user's notifications, newest first. The
// stable sort keeps insertion order for equal timestamps, which one fan-out
// burst easily produces.
func (s *MemStore) ListNotifications(_ context.Context, userID string) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, 0, len(s.notifications[userID]))
	for _, n := range s.notifications[userID] {
		out = append(out, *n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) UnreadNotificationCount(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) MarkNotificationsRead(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications[userID] {
		n.Read = true
	}
	return nil
}
