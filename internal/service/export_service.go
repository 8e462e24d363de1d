package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/user-admin-console/internal/models"
	"github.com/noah-isme/user-admin-console/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts "csv" and "pdf" in any case. Empty defaults to CSV.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", raw)
}

var userExportHeaders = []string{"ID", "Username", "First name", "Last name", "Email", "Status", "Department"}

// ExportResult is a rendered file ready to be served.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	Rows        int
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

type userSource interface {
	Users() []models.User
}

// UserExportService renders the list view's current users.
type UserExportService struct {
	source    userSource
	renderers map[ExportFormat]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewUserExportService constructs a UserExportService. Nil renderers fall back to pkg/export.
func NewUserExportService(source userSource, csv, pdf renderer, logger *zap.Logger) *UserExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &UserExportService{
		source:    source,
		renderers: map[ExportFormat]renderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
		now:       time.Now,
	}
}

// Export renders the users currently held by the list.
func (s *UserExportService) Export(format ExportFormat) (*ExportResult, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	dataset := UsersDataset(s.source.Users())
	payload, err := r.Render(dataset)
	if err != nil {
		s.logger.Error("failed to render users export", zap.String("format", string(format)), zap.Error(err))
		return nil, err
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("users_%s.%s", s.now().UTC().Format("20060102_150405"), format),
		ContentType: r.ContentType(),
		Payload:     payload,
		Rows:        dataset.Len(),
	}, nil
}

// UsersDataset lays users out in list order with status labels.
func UsersDataset(users []models.User) export.Dataset {
	rows := make([]map[string]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, map[string]string{
			"ID":         strconv.FormatInt(u.ID, 10),
			"Username":   u.Username,
			"First name": u.FirstName,
			"Last name":  u.LastName,
			"Email":      u.Email,
			"Status":     u.Status.Label(),
			"Department": u.Department,
		})
	}
	return export.Dataset{Title: "Users", Headers: userExportHeaders, Rows: rows}
}
