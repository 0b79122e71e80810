package relay

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Dispatch persists a notification and then, if the target user has a live
// connection, pushes it to their private room. Persist-then-push: the record
// exists even when the push is lost to a disconnect race, so a reconnecting
// client can always recover it through the read API.
func (r *Relay) Dispatch(ctx context.Context, targetUserID, notifType, title, body, link string) error {
	n := &Notification{
		ID:        uuid.NewString(),
		UserID:    targetUserID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		Link:      link,
		CreatedAt: time.Now(),
	}
	if err := r.store.CreateNotification(ctx, n); err != nil {
		return err
	}
	if len(r.ConnectionsFor(targetUserID)) > 0 {
		r.Broadcast(UserRoom(targetUserID), EventNewNotification, n, "")
	}
	return nil
}
