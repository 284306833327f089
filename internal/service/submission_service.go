package service

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/report"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/storage"
)

type submissionRepository interface {
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error)
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Delete(ctx context.Context, id string) error
}

type documentRenderer interface {
	Render(formType models.FormType, payload report.Payload, header report.Header) (*report.Document, error)
}

// SubmitFormRequest carries a structured form payload for rendering.
type SubmitFormRequest struct {
	FormType string         `json:"form_type"`
	Campus   string         `json:"campus"`
	Payload  report.Payload `json:"payload"`
}

// SubmissionResult reports the stored document. Recorded is false when
// the document reached the store but the metadata row could not be
// written; the upload itself is never rolled back.
type SubmissionResult struct {
	Submission *models.Submission    `json:"submission"`
	Object     *storage.StoredObject `json:"object"`
	Recorded   bool                  `json:"recorded"`
}

// SubmissionService drives the form-to-document pipeline.
type SubmissionService struct {
	repo         submissionRepository
	renderer     documentRenderer
	store        storage.ObjectStore
	institutions regionResolver
	logger       *zap.Logger
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(repo submissionRepository, renderer documentRenderer, store storage.ObjectStore, institutions regionResolver, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		repo:         repo,
		renderer:     renderer,
		store:        store,
		institutions: institutions,
		logger:       logger,
	}
}

// Submit renders the form payload into a spreadsheet, stores it, then
// records the metadata row. Rendering and validation failures happen
// before any external call. The store write is authoritative: if it
// fails the submission fails. The metadata write is best effort.
func (s *SubmissionService) Submit(ctx context.Context, institutionID string, req SubmitFormRequest) (*SubmissionResult, error) {
	if !models.ValidFormType(req.FormType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "form_type must be form1 or form2")
	}
	formType := models.FormType(req.FormType)

	header := report.Header{}
	if institution, err := s.institutions.FindByID(ctx, institutionID); err == nil {
		header = report.Header{
			Institution: institution.Name,
			Region:      institution.Region,
			Address:     institution.Address,
		}
	}

	document, err := s.renderer.Render(formType, req.Payload, header)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, institutionID, req.Campus, formType, document)
}

// SubmitPrerendered stores a client-rendered spreadsheet as-is. Used by
// clients that fill the template offline.
func (s *SubmissionService) SubmitPrerendered(ctx context.Context, institutionID, campus string, formType string, upload DocumentUpload) (*SubmissionResult, error) {
	if !models.ValidFormType(formType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "form_type must be form1 or form2")
	}
	if len(upload.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "uploaded file is empty")
	}
	if upload.MIMEType != report.SpreadsheetMIME {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only xlsx spreadsheets are accepted")
	}
	document := &report.Document{
		FileName: upload.FileName,
		MIMEType: upload.MIMEType,
		Bytes:    upload.Data,
	}
	return s.persist(ctx, institutionID, campus, models.FormType(formType), document)
}

func (s *SubmissionService) persist(ctx context.Context, institutionID, campus string, formType models.FormType, document *report.Document) (*SubmissionResult, error) {
	object, err := s.store.Store(ctx, document.FileName, document.MIMEType, document.Bytes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "document upload failed")
	}

	submission := &models.Submission{
		InstitutionID: institutionID,
		Campus:        campus,
		FormType:      formType,
		ObjectID:      object.ID,
		FileName:      document.FileName,
	}
	result := &SubmissionResult{Submission: submission, Object: object, Recorded: true}
	if err := s.repo.Create(ctx, submission); err != nil {
		// The document is already stored; losing the metadata row must
		// not lose the upload. Surface the degraded state instead.
		s.logger.Error("submission metadata write failed after upload",
			zap.String("object_id", object.ID),
			zap.String("institution_id", institutionID),
			zap.Error(err))
		result.Recorded = false
	} else {
		s.logger.Info("form submitted",
			zap.String("submission_id", submission.ID),
			zap.String("form_type", string(formType)),
			zap.String("object_id", object.ID))
	}
	return result, nil
}

// List returns an institution's submissions, newest first.
func (s *SubmissionService) List(ctx context.Context, institutionID string, filter models.SubmissionFilter) ([]models.Submission, error) {
	filter.InstitutionID = institutionID
	submissions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	if submissions == nil {
		submissions = []models.Submission{}
	}
	return submissions, nil
}

// ExportPDF converts a stored submission into PDF bytes.
func (s *SubmissionService) ExportPDF(ctx context.Context, institutionID, id string) ([]byte, string, error) {
	submission, err := s.findOwned(ctx, institutionID, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.store.ExportPDF(ctx, submission.ObjectID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "PDF export failed")
	}
	return data, pdfFileName(submission.FileName), nil
}

// Download streams the stored spreadsheet bytes.
func (s *SubmissionService) Download(ctx context.Context, institutionID, id string) (io.ReadCloser, *models.Submission, error) {
	submission, err := s.findOwned(ctx, institutionID, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.store.OpenRead(ctx, submission.ObjectID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "document download failed")
	}
	return reader, submission, nil
}

// Delete removes the metadata row for an owned submission. The stored
// object is retained for audit.
func (s *SubmissionService) Delete(ctx context.Context, institutionID, id string) error {
	if _, err := s.findOwned(ctx, institutionID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete submission")
	}
	s.logger.Info("submission deleted", zap.String("submission_id", id))
	return nil
}

func (s *SubmissionService) findOwned(ctx context.Context, institutionID, id string) (*models.Submission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	if submission.InstitutionID != institutionID {
		return nil, appErrors.ErrNotOwner
	}
	return submission, nil
}

func pdfFileName(name string) string {
	const ext = ".xlsx"
	if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
		name = name[:len(name)-len(ext)]
	}
	return name + ".pdf"
}
