package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/user-admin-console/internal/form"
	"github.com/noah-isme/user-admin-console/pkg/logger"
	"github.com/noah-isme/user-admin-console/pkg/response"
)

// CreateUserHandler serves the create-user view.
type CreateUserHandler struct {
	forms         *form.Factory
	notifications notificationSource
	logger        *zap.Logger
}

// NewCreateUserHandler creates a new create-user handler.
func NewCreateUserHandler(forms *form.Factory, notifications notificationSource, logger *zap.Logger) *CreateUserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateUserHandler{forms: forms, notifications: notifications, logger: logger}
}

// Blank godoc
// @Summary Blank create form
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.FormView}
// @Router /create-user [get]
func (h *CreateUserHandler) Blank(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.forms.New(nil).State())
}

// Validate godoc
// @Summary Validate draft
// @Description Evaluates the field rules of a draft without contacting the user store
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.UserFormRequest true "Draft values"
// @Success 200 {object} response.Envelope{data=dto.FormView}
// @Failure 400 {object} response.Envelope
// @Router /create-user/validate [post]
func (h *CreateUserHandler) Validate(c *gin.Context) {
	f := h.forms.New(nil)
	if err := applyDraft(c, f); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, f.State())
}

// Create godoc
// @Summary Create user
// @Description Submits the draft; on success the console navigates back to the users list
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.UserFormRequest true "Draft values"
// @Success 201 {object} response.Envelope{data=dto.UserRow}
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope{data=dto.FormView}
// @Failure 502 {object} response.Envelope{data=dto.FormView}
// @Router /create-user [post]
func (h *CreateUserHandler) Create(c *gin.Context) {
	f := h.forms.New(nil)
	if err := applyDraft(c, f); err != nil {
		response.Error(c, err)
		return
	}

	saved, err := f.Submit(c.Request.Context())
	if err != nil {
		logger.FromContext(c, h.logger).Debug("user create rejected", zap.Error(err))
		response.ErrorWithData(c, formError(err), f.State(), notificationMeta(h.notifications, nil))
		return
	}
	response.Created(c, userRow(saved), map[string]interface{}{response.MetaNavigate: ViewUsersList})
}
