package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/user-admin-console/internal/dto"
	"github.com/noah-isme/user-admin-console/internal/form"
	"github.com/noah-isme/user-admin-console/internal/models"
	"github.com/noah-isme/user-admin-console/internal/notify"
	appErrors "github.com/noah-isme/user-admin-console/pkg/errors"
	"github.com/noah-isme/user-admin-console/pkg/response"
)

// Named console views.
const (
	ViewUsersList  = "/users-list"
	ViewCreateUser = "/create-user"
)

type notificationSource interface {
	Current() (notify.Notification, bool)
}

func userRow(u models.User) dto.UserRow {
	return dto.UserRow{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Status:      u.Status.Key(),
		StatusLabel: u.Status.Label(),
		Department:  u.Department,
	}
}

func notificationView(n notify.Notification) dto.NotificationView {
	return dto.NotificationView{ID: n.ID, Message: n.Message, Action: n.Action, ExpiresAt: n.ExpiresAt}
}

// notificationMeta attaches the notification on display, if any.
func notificationMeta(src notificationSource, meta map[string]interface{}) map[string]interface{} {
	if src == nil {
		return meta
	}
	if n, ok := src.Current(); ok {
		if meta == nil {
			meta = map[string]interface{}{}
		}
		meta[response.MetaNotification] = notificationView(n)
	}
	return meta
}

func parseUserID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid user id")
	}
	return id, nil
}

// formError maps a failed submit or delete onto the console error contract.
func formError(err error) error {
	switch {
	case errors.Is(err, form.ErrFormInvalid):
		return appErrors.Wrap(err, appErrors.ErrInvalidForm.Code, appErrors.ErrInvalidForm.Status, appErrors.ErrInvalidForm.Message)
	case errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrNotEditing):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return err
}

// applyDraft binds the request body onto f. An empty body leaves the form untouched.
func applyDraft(c *gin.Context, f *form.UserForm) error {
	var req dto.UserFormRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := f.Apply(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return nil
}
