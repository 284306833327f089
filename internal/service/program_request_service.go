package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/region"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/storage"
)

type programRequestRepository interface {
	List(ctx context.Context, filter models.ProgramRequestFilter) ([]models.ProgramRequest, error)
	FindByID(ctx context.Context, id string) (*models.ProgramRequest, error)
	Create(ctx context.Context, request *models.ProgramRequest) error
	ReplaceCurriculum(ctx context.Context, id, objectID, link string, status models.ApprovalStatus) error
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error
	Delete(ctx context.Context, id string) error
}

type masterProgramReader interface {
	FindByID(ctx context.Context, id string) (*models.MasterProgram, error)
}

// CreateProgramRequestRequest holds payload for an HEI requesting a
// catalog program. The curriculum upload is optional at creation time.
type CreateProgramRequestRequest struct {
	MasterProgramID string `json:"master_program_id" validate:"required"`
}

// ProgramRequestService handles the catalog-program adoption workflow.
type ProgramRequestService struct {
	repo         programRequestRepository
	catalog      masterProgramReader
	institutions regionResolver
	store        storage.ObjectStore
	validator    *validator.Validate
	logger       *zap.Logger
	maxUpload    int64
}

// NewProgramRequestService constructs the program request service.
func NewProgramRequestService(repo programRequestRepository, catalog masterProgramReader, institutions regionResolver, store storage.ObjectStore, validate *validator.Validate, logger *zap.Logger, maxUpload int64) *ProgramRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramRequestService{
		repo:         repo,
		catalog:      catalog,
		institutions: institutions,
		store:        store,
		validator:    validate,
		logger:       logger,
		maxUpload:    maxUpload,
	}
}

// Create opens a request against a catalog program. The program code and
// title are denormalised into the row so listings survive later catalog
// edits. When a curriculum file is supplied it must be a PDF and is
// uploaded before the row exists.
func (s *ProgramRequestService) Create(ctx context.Context, institutionID string, req CreateProgramRequestRequest, curriculum *DocumentUpload) (*models.ProgramRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program request payload")
	}
	program, err := s.catalog.FindByID(ctx, req.MasterProgramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "catalog program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog program")
	}

	request := &models.ProgramRequest{
		InstitutionID:   institutionID,
		MasterProgramID: program.ID,
		ProgramCode:     program.Code,
		ProgramTitle:    program.Title,
		Status:          models.StatusForApproval,
	}
	if curriculum != nil {
		if err := validatePDF(*curriculum, s.maxUpload); err != nil {
			return nil, err
		}
		object, err := s.store.Store(ctx, curriculum.FileName, curriculum.MIMEType, curriculum.Data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "curriculum upload failed")
		}
		request.CurriculumObjectID = &object.ID
		request.CurriculumLink = &object.ViewLink
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record program request")
	}
	s.logger.Info("program request opened",
		zap.String("request_id", request.ID),
		zap.String("institution_id", institutionID),
		zap.String("program_code", program.Code))
	return request, nil
}

// ListForInstitution returns an HEI's own requests.
func (s *ProgramRequestService) ListForInstitution(ctx context.Context, institutionID string, filter models.ProgramRequestFilter) ([]models.ProgramRequest, error) {
	filter.InstitutionID = institutionID
	filter.InstitutionIDs = nil
	return s.list(ctx, filter)
}

// ListForReviewer returns requests from institutions inside the
// reviewer's region.
func (s *ProgramRequestService) ListForReviewer(ctx context.Context, admin models.AdminContext, filter models.ProgramRequestFilter) ([]models.ProgramRequest, error) {
	filter.InstitutionID = ""
	if !admin.Unrestricted {
		ids, err := s.institutions.IDsByRegion(ctx, region.Canonical(admin.Region))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve reviewer region")
		}
		if len(ids) == 0 {
			return []models.ProgramRequest{}, nil
		}
		filter.InstitutionIDs = ids
	}
	return s.list(ctx, filter)
}

func (s *ProgramRequestService) list(ctx context.Context, filter models.ProgramRequestFilter) ([]models.ProgramRequest, error) {
	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list program requests")
	}
	if requests == nil {
		requests = []models.ProgramRequest{}
	}
	return requests, nil
}

// Get returns one request.
func (s *ProgramRequestService) Get(ctx context.Context, id string) (*models.ProgramRequest, error) {
	return s.find(ctx, id)
}

// ReplaceCurriculum swaps the curriculum document and sends the request
// back to review. The reset applies whatever state the request was in, so
// an approved request that changes its curriculum is reviewed again.
func (s *ProgramRequestService) ReplaceCurriculum(ctx context.Context, institutionID, id string, curriculum DocumentUpload) (*models.ProgramRequest, error) {
	request, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.InstitutionID != institutionID {
		return nil, appErrors.ErrNotOwner
	}
	if err := validatePDF(curriculum, s.maxUpload); err != nil {
		return nil, err
	}
	object, err := s.store.Store(ctx, curriculum.FileName, curriculum.MIMEType, curriculum.Data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "curriculum upload failed")
	}
	if err := s.repo.ReplaceCurriculum(ctx, id, object.ID, object.ViewLink, models.StatusForApproval); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace curriculum")
	}
	request.CurriculumObjectID = &object.ID
	request.CurriculumLink = &object.ViewLink
	request.Status = models.StatusForApproval
	s.logger.Info("curriculum replaced",
		zap.String("request_id", id),
		zap.String("object_id", object.ID))
	return request, nil
}

// Review records a reviewer's decision on a request in their region.
func (s *ProgramRequestService) Review(ctx context.Context, admin models.AdminContext, id, decision string) (*models.ProgramRequest, error) {
	if decision != string(models.StatusApproved) && decision != string(models.StatusDeclined) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be Approved or Declined")
	}
	request, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRegion(ctx, admin, request.InstitutionID); err != nil {
		return nil, err
	}
	status := models.ApprovalStatus(decision)
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decision")
	}
	request.Status = status
	s.logger.Info("program request reviewed",
		zap.String("request_id", id),
		zap.String("decision", decision),
		zap.String("reviewer_region", admin.Region))
	return request, nil
}

// Delete withdraws a request. The owner can withdraw at any state,
// including after a decision.
func (s *ProgramRequestService) Delete(ctx context.Context, institutionID, id string) error {
	request, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if request.InstitutionID != institutionID {
		return appErrors.ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program request")
	}
	s.logger.Info("program request withdrawn", zap.String("request_id", id))
	return nil
}

func (s *ProgramRequestService) find(ctx context.Context, id string) (*models.ProgramRequest, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program request")
	}
	return request, nil
}

func (s *ProgramRequestService) checkRegion(ctx context.Context, admin models.AdminContext, institutionID string) error {
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
