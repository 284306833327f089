package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/region"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/storage"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error
	Delete(ctx context.Context, id string) error
}

type regionResolver interface {
	IDsByRegion(ctx context.Context, region string) ([]string, error)
	FindByID(ctx context.Context, id string) (*models.Institution, error)
}

// CreateSubjectRequest holds payload for an HEI submitting a subject for
// review. The syllabus file travels alongside, not inside, this struct.
type CreateSubjectRequest struct {
	Campus              string   `json:"campus" validate:"required"`
	Kind                string   `json:"kind" validate:"required"`
	Code                string   `json:"code" validate:"required"`
	Title               string   `json:"title" validate:"required"`
	Units               *float64 `json:"units,omitempty"`
	GovernmentAuthority string   `json:"government_authority,omitempty"`
	AcademicYearStarted string   `json:"ay_started,omitempty"`
	EnrollmentYear1     *int     `json:"enrollment_y1,omitempty"`
	EnrollmentYear2     *int     `json:"enrollment_y2,omitempty"`
	EnrollmentYear3     *int     `json:"enrollment_y3,omitempty"`
}

// UpdateSubjectRequest holds the descriptive fields an owner may revise
// while the entry is still awaiting review.
type UpdateSubjectRequest struct {
	Code                string   `json:"code" validate:"required"`
	Title               string   `json:"title" validate:"required"`
	Units               *float64 `json:"units,omitempty"`
	GovernmentAuthority string   `json:"government_authority,omitempty"`
	AcademicYearStarted string   `json:"ay_started,omitempty"`
	EnrollmentYear1     *int     `json:"enrollment_y1,omitempty"`
	EnrollmentYear2     *int     `json:"enrollment_y2,omitempty"`
	EnrollmentYear3     *int     `json:"enrollment_y3,omitempty"`
}

// SubjectService handles the subject review workflow.
type SubjectService struct {
	repo         subjectRepository
	institutions regionResolver
	store        storage.ObjectStore
	validator    *validator.Validate
	logger       *zap.Logger
	maxUpload    int64
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo subjectRepository, institutions regionResolver, store storage.ObjectStore, validate *validator.Validate, logger *zap.Logger, maxUpload int64) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{
		repo:         repo,
		institutions: institutions,
		store:        store,
		validator:    validate,
		logger:       logger,
		maxUpload:    maxUpload,
	}
}

// Create validates the syllabus, uploads it, then records the subject in
// the For Approval state. A failed upload aborts before any row is
// written.
func (s *SubjectService) Create(ctx context.Context, institutionID string, req CreateSubjectRequest, syllabus DocumentUpload) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if !models.ValidSubjectKind(req.Kind) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown subject kind %q", req.Kind))
	}
	kind := models.SubjectKind(req.Kind)
	if kind == models.SubjectDegreeProgram {
		if req.GovernmentAuthority == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "government authority is required for degree programs")
		}
	} else if req.Units == nil || *req.Units <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "units must be a positive number")
	}
	if err := validatePDF(syllabus, s.maxUpload); err != nil {
		return nil, err
	}

	object, err := s.store.Store(ctx, syllabus.FileName, syllabus.MIMEType, syllabus.Data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "syllabus upload failed")
	}

	subject := &models.Subject{
		InstitutionID:    institutionID,
		Campus:           req.Campus,
		Kind:             kind,
		Code:             req.Code,
		Title:            req.Title,
		Units:            req.Units,
		SyllabusObjectID: object.ID,
		SyllabusLink:     object.ViewLink,
		Status:           models.StatusForApproval,
	}
	if kind == models.SubjectDegreeProgram {
		subject.GovernmentAuthority = optional(req.GovernmentAuthority)
		subject.AcademicYearStarted = optional(req.AcademicYearStarted)
		subject.EnrollmentYear1 = req.EnrollmentYear1
		subject.EnrollmentYear2 = req.EnrollmentYear2
		subject.EnrollmentYear3 = req.EnrollmentYear3
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record subject")
	}
	s.logger.Info("subject submitted for review",
		zap.String("subject_id", subject.ID),
		zap.String("institution_id", institutionID),
		zap.String("kind", string(kind)))
	return subject, nil
}

// ListForInstitution returns an HEI's own entries.
func (s *SubjectService) ListForInstitution(ctx context.Context, institutionID string, filter models.SubjectFilter) ([]models.Subject, error) {
	filter.InstitutionID = institutionID
	filter.InstitutionIDs = nil
	return s.list(ctx, filter)
}

// ListForReviewer returns entries visible to a regional reviewer. The
// reviewer's region is resolved to the set of institutions registered in
// it; an unrestricted reviewer sees everything.
func (s *SubjectService) ListForReviewer(ctx context.Context, admin models.AdminContext, filter models.SubjectFilter) ([]models.Subject, error) {
	filter.InstitutionID = ""
	if !admin.Unrestricted {
		ids, err := s.institutions.IDsByRegion(ctx, region.Canonical(admin.Region))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve reviewer region")
		}
		if len(ids) == 0 {
			return []models.Subject{}, nil
		}
		filter.InstitutionIDs = ids
	}
	return s.list(ctx, filter)
}

func (s *SubjectService) list(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	return s.find(ctx, id)
}

// Review records an approval decision. The target must sit inside the
// reviewer's region and the decision must be Approved or Declined.
func (s *SubjectService) Review(ctx context.Context, admin models.AdminContext, id, decision string) (*models.Subject, error) {
	if decision != string(models.StatusApproved) && decision != string(models.StatusDeclined) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("decision must be %q or %q", models.StatusApproved, models.StatusDeclined))
	}
	subject, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRegion(ctx, admin, subject.InstitutionID); err != nil {
		return nil, err
	}
	status := models.ApprovalStatus(decision)
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decision")
	}
	subject.Status = status
	s.logger.Info("subject reviewed",
		zap.String("subject_id", id),
		zap.String("decision", decision),
		zap.String("reviewer_region", admin.Region))
	return subject, nil
}

// Update lets the owning institution revise a pending entry. Approved or
// declined entries are frozen.
func (s *SubjectService) Update(ctx context.Context, institutionID, id string, req UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if subject.InstitutionID != institutionID {
		return nil, appErrors.ErrNotOwner
	}
	if subject.Status != models.StatusForApproval {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only entries awaiting review can be edited")
	}

	subject.Code = req.Code
	subject.Title = req.Title
	subject.Units = req.Units
	if subject.Kind == models.SubjectDegreeProgram {
		subject.GovernmentAuthority = optional(req.GovernmentAuthority)
		subject.AcademicYearStarted = optional(req.AcademicYearStarted)
		subject.EnrollmentYear1 = req.EnrollmentYear1
		subject.EnrollmentYear2 = req.EnrollmentYear2
		subject.EnrollmentYear3 = req.EnrollmentYear3
	}
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete removes an entry owned by the calling institution. The syllabus
// object is left in the store; only the review row disappears.
func (s *SubjectService) Delete(ctx context.Context, institutionID, id string) error {
	subject, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if subject.InstitutionID != institutionID {
		return appErrors.ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.logger.Info("subject deleted", zap.String("subject_id", id), zap.String("institution_id", institutionID))
	return nil
}

func (s *SubjectService) find(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

func (s *SubjectService) checkRegion(ctx context.Context, admin models.AdminContext, institutionID string) error {
	if admin.Unrestricted {
		return nil
	}
	institution, err := s.institutions.FindByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "owning institution not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}
	if !region.Match(institution.Region, admin.Region) {
		return appErrors.ErrRegionMismatch
	}
	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
