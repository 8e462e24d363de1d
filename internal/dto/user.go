package dto

import (
	"fmt"

	"github.com/noah-isme/user-admin-console/internal/models"
)

// UserWire is the user shape exchanged with the backend user store.
type UserWire struct {
	UserID     int64  `json:"user_id,omitempty"`
	UserName   string `json:"user_name"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	UserStatus string `json:"user_status"`
	Department string `json:"department"`
}

// UserListEnvelope wraps GET /users responses.
type UserListEnvelope struct {
	Data []UserWire `json:"data"`
}

// UserEnvelope wraps POST and PUT /users responses.
type UserEnvelope struct {
	Data *UserWire `json:"data"`
}

// DeleteEnvelope wraps DELETE /users/{id} responses. Data echoes the deleted id.
type DeleteEnvelope struct {
	Data *int64 `json:"data"`
}

// FailureEnvelope is the body of any non-2xx backend response.
type FailureEnvelope struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// ToWire maps a user into the backend representation. An unsaved user is sent without user_id.
func ToWire(u models.User) UserWire {
	return UserWire{
		UserID:     u.ID,
		UserName:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		UserStatus: u.Status.Key(),
		Department: u.Department,
	}
}

// FromWire maps a backend user into the in-memory model.
func FromWire(w UserWire) (models.User, error) {
	status, err := models.ParseUserStatus(w.UserStatus)
	if err != nil {
		return models.User{}, fmt.Errorf("user %d: %w", w.UserID, err)
	}
	if w.UserID < 0 {
		return models.User{}, fmt.Errorf("user id %d is negative", w.UserID)
	}
	return models.User{
		ID:         w.UserID,
		Username:   w.UserName,
		FirstName:  w.FirstName,
		LastName:   w.LastName,
		Email:      w.Email,
		Status:     status,
		Department: w.Department,
	}, nil
}
