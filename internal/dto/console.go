package dto

import "time"

// UserFormRequest carries draft values for the user form. Nil fields keep their current value.
type UserFormRequest struct {
	Username   *string  `json:"username"`
	Email      *string  `json:"email"`
	FirstName  *string  `json:"firstName"`
	LastName   *string  `json:"lastName"`
	Department *string  `json:"department"`
	Status     *string  `json:"status"`
	Touched    []string `json:"touched"`
}

// Values returns the provided text fields keyed by form field name.
func (r UserFormRequest) Values() map[string]string {
	values := make(map[string]string, 5)
	set := func(name string, v *string) {
		if v != nil {
			values[name] = *v
		}
	}
	set("username", r.Username)
	set("email", r.Email)
	set("firstName", r.FirstName)
	set("lastName", r.LastName)
	set("department", r.Department)
	return values
}

// StatusOption is one entry of the status select.
type StatusOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FieldView is the rendered state of one form input.
type FieldView struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Touched bool   `json:"touched"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// FormView is the rendered state of a user form.
type FormView struct {
	UserID      int64          `json:"userId"`
	Fields      []FieldView    `json:"fields"`
	Status      string         `json:"status"`
	Statuses    []StatusOption `json:"statuses"`
	Valid       bool           `json:"valid"`
	Awaiting    bool           `json:"awaiting"`
	AllowDelete bool           `json:"allowDelete"`
}

// UserRow is one line of the users list.
type UserRow struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
	Department  string `json:"department,omitempty"`
}

// ListView is the users-list view model.
type ListView struct {
	Users    []UserRow      `json:"users"`
	Statuses []StatusOption `json:"statuses"`
	Awaiting bool           `json:"awaiting"`
}

// NotificationView is the currently displayed notification.
type NotificationView struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Action    string    `json:"action,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}
