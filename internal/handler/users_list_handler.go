package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/user-admin-console/internal/dto"
	"github.com/noah-isme/user-admin-console/internal/form"
	"github.com/noah-isme/user-admin-console/internal/service"
	appErrors "github.com/noah-isme/user-admin-console/pkg/errors"
	"github.com/noah-isme/user-admin-console/pkg/logger"
	"github.com/noah-isme/user-admin-console/pkg/response"
)

// UsersListHandler serves the users-list view and its inline edit form.
type UsersListHandler struct {
	list          *service.UserListService
	forms         *form.Factory
	notifications notificationSource
	logger        *zap.Logger
}

// NewUsersListHandler creates a new users-list handler.
func NewUsersListHandler(list *service.UserListService, forms *form.Factory, notifications notificationSource, logger *zap.Logger) *UsersListHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersListHandler{list: list, forms: forms, notifications: notifications, logger: logger}
}

// List godoc
// @Summary Users list
// @Description Reloads users from the user store and renders the list view
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.ListView}
// @Failure 502 {object} response.Envelope
// @Router /users-list [get]
func (h *UsersListHandler) List(c *gin.Context) {
	err := h.list.Activate(c.Request.Context())
	view := h.view()
	meta := notificationMeta(h.notifications, nil)
	if err != nil {
		response.ErrorWithData(c, err, view, meta)
		return
	}
	response.JSON(c, http.StatusOK, view, meta)
}

// Update godoc
// @Summary Update user
// @Description Applies the draft onto the listed user and submits it
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param payload body dto.UserFormRequest true "Draft values"
// @Success 200 {object} response.Envelope{data=dto.UserRow}
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope{data=dto.FormView}
// @Failure 502 {object} response.Envelope{data=dto.FormView}
// @Router /users-list/{id} [put]
func (h *UsersListHandler) Update(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	user, ok := h.list.Find(id)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "user not found"))
		return
	}

	f := h.forms.New(&user)
	if err := applyDraft(c, f); err != nil {
		response.Error(c, err)
		return
	}

	saved, err := f.Submit(c.Request.Context())
	if err != nil {
		logger.FromContext(c, h.logger).Debug("user update rejected", zap.Int64("user_id", id), zap.Error(err))
		response.ErrorWithData(c, formError(err), f.State(), notificationMeta(h.notifications, nil))
		return
	}
	response.JSON(c, http.StatusOK, userRow(saved))
}

// Delete godoc
// @Summary Delete user
// @Description Deletes the listed user once the operator confirmed the prompt
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Param confirm query bool false "Answer to the confirmation prompt"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /users-list/{id} [delete]
func (h *UsersListHandler) Delete(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	user, ok := h.list.Find(id)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "user not found"))
		return
	}

	confirm := confirmerFromQuery(c)
	f := h.forms.New(&user)
	deleted, err := f.RequestDelete(c.Request.Context(), confirm)
	if err != nil {
		response.ErrorWithData(c, formError(err), f.State(), notificationMeta(h.notifications, nil))
		return
	}
	if !confirm.answer {
		response.ErrorWithData(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "delete not confirmed"), nil,
			map[string]interface{}{response.MetaPrompt: confirm.prompt})
		return
	}
	if !deleted {
		logger.FromContext(c, h.logger).Warn("user store did not confirm delete", zap.Int64("user_id", id))
	}
	response.JSON(c, http.StatusOK, gin.H{"id": id, "deleted": deleted})
}

func (h *UsersListHandler) view() dto.ListView {
	users := h.list.Users()
	rows := make([]dto.UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow(u))
	}
	return dto.ListView{Users: rows, Statuses: form.StatusOptions(), Awaiting: h.list.Awaiting()}
}
