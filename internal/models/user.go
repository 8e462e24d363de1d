package models

import "fmt"

// UserStatus is the closed set of account states a managed user can be in.
type UserStatus uint8

const (
	StatusActive UserStatus = iota + 1
	StatusInactive
	StatusTerminated
)

var userStatuses = []UserStatus{StatusActive, StatusInactive, StatusTerminated}

// Statuses returns every valid status in display order. The first entry is the form default.
func Statuses() []UserStatus {
	out := make([]UserStatus, len(userStatuses))
	copy(out, userStatuses)
	return out
}

// ParseUserStatus resolves a single character wire key into a status.
func ParseUserStatus(key string) (UserStatus, error) {
	for _, s := range userStatuses {
		if s.Key() == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown user status %q", key)
}

// Valid reports whether the status belongs to the fixed set.
func (s UserStatus) Valid() bool {
	return s >= StatusActive && s <= StatusTerminated
}

// Key returns the single character machine key used on the wire.
func (s UserStatus) Key() string {
	switch s {
	case StatusActive:
		return "A"
	case StatusInactive:
		return "I"
	case StatusTerminated:
		return "T"
	}
	return ""
}

// Label returns the human readable name.
func (s UserStatus) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusInactive:
		return "Inactive"
	case StatusTerminated:
		return "Terminated"
	}
	return ""
}

func (s UserStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("UserStatus(%d)", uint8(s))
	}
	return s.Label()
}

// MarshalText encodes the status as its wire key.
func (s UserStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid user status %d", uint8(s))
	}
	return []byte(s.Key()), nil
}

// UnmarshalText decodes a wire key, rejecting anything outside the fixed set.
func (s *UserStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseUserStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnsavedUserID marks a user that the backend has not assigned an id to yet.
const UnsavedUserID int64 = 0

// User is one managed account as held by the console.
type User struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Status     UserStatus `json:"status"`
	Department string     `json:"department,omitempty"`
}

// Persisted reports whether the backend has assigned the user an id.
func (u User) Persisted() bool {
	return u.ID != UnsavedUserID
}
