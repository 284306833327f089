package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hei-portal-api/internal/models"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/export"
)

// ExportFile is a rendered listing ready for download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders submission and subject listings as CSV or PDF
// downloads.
type ExportService struct {
	submissions submissionRepository
	subjects    subjectRepository
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(submissions submissionRepository, subjects subjectRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		submissions: submissions,
		subjects:    subjects,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Submissions exports an institution's submission history.
func (s *ExportService) Submissions(ctx context.Context, institutionID, format string) (*ExportFile, error) {
	rows, err := s.submissions.List(ctx, models.SubmissionFilter{InstitutionID: institutionID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	dataset := export.Dataset{
		Headers: []string{"Form", "Campus", "File Name", "Submitted At"},
	}
	for _, sub := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Form":         sub.FormType.Label(),
			"Campus":       sub.Campus,
			"File Name":    sub.FileName,
			"Submitted At": sub.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.render(dataset, "submissions", "Submission History", format)
}

// Subjects exports an institution's subject review entries.
func (s *ExportService) Subjects(ctx context.Context, institutionID, format string) (*ExportFile, error) {
	rows, err := s.subjects.List(ctx, models.SubjectFilter{InstitutionID: institutionID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	dataset := export.Dataset{
		Headers: []string{"Kind", "Code", "Title", "Units", "Campus", "Status"},
	}
	for _, subject := range rows {
		units := ""
		if subject.Units != nil {
			units = strconv.FormatFloat(*subject.Units, 'f', -1, 64)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Kind":   string(subject.Kind),
			"Code":   subject.Code,
			"Title":  subject.Title,
			"Units":  units,
			"Campus": subject.Campus,
			"Status": string(subject.Status),
		})
	}
	return s.render(dataset, "subjects", "Subject Review Entries", format)
}

func (s *ExportService) render(dataset export.Dataset, name, title, format string) (*ExportFile, error) {
	stamp := time.Now().UTC().Format("2006-01-02")
	switch format {
	case "csv", "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv export failed")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("%s-%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "pdf":
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf export failed")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("%s-%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}
