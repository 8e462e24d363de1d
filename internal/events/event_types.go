package events

import (
	"time"

	"github.com/noah-isme/user-admin-console/internal/models"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventUserUpserted fires after the backend confirmed a create or update.
	EventUserUpserted EventType = "user_upserted"
	// EventUserDeleted fires after the backend confirmed deleting the requested id.
	EventUserDeleted EventType = "user_deleted"
)

// Event represents a user mutation confirmed by the backend.
type Event struct {
	Type      EventType
	UserID    int64
	User      *models.User
	Timestamp time.Time
}

// UserUpserted builds an upsert event carrying the canonical user.
func UserUpserted(user models.User) Event {
	return Event{Type: EventUserUpserted, UserID: user.ID, User: &user, Timestamp: time.Now().UTC()}
}

// UserDeleted builds a delete event for id.
func UserDeleted(id int64) Event {
	return Event{Type: EventUserDeleted, UserID: id, Timestamp: time.Now().UTC()}
}
