package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/user-admin-console/internal/service"
	appErrors "github.com/noah-isme/user-admin-console/pkg/errors"
	"github.com/noah-isme/user-admin-console/pkg/response"
)

// ExportHandler streams the listed users as a file download.
type ExportHandler struct {
	exporter *service.UserExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(exporter *service.UserExportService) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Users godoc
// @Summary Export users
// @Description Renders the users currently listed as CSV or PDF
// @Tags Users
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /users-list/export [get]
func (h *ExportHandler) Users(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error()))
		return
	}
	result, err := h.exporter.Export(format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
