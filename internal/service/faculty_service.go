package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hei-portal-api/internal/models"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, member *models.Faculty) error
	Update(ctx context.Context, member *models.Faculty) error
	Delete(ctx context.Context, id string) error
}

// FacultyRequest holds payload for creating or updating a roster member.
type FacultyRequest struct {
	Campus           string `json:"campus" validate:"required"`
	Name             string `json:"name" validate:"required"`
	EmploymentStatus string `json:"employment_status" validate:"required"`
	Attainment       string `json:"attainment" validate:"required"`
}

// FacultyService manages an institution's faculty roster.
type FacultyService struct {
	repo      facultyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs the faculty service.
func NewFacultyService(repo facultyRepository, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, validator: validate, logger: logger}
}

// List returns the roster for the calling institution.
func (s *FacultyService) List(ctx context.Context, institutionID string, filter models.FacultyFilter) ([]models.Faculty, error) {
	filter.InstitutionID = institutionID
	roster, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	if roster == nil {
		roster = []models.Faculty{}
	}
	return roster, nil
}

// Create adds a roster member.
func (s *FacultyService) Create(ctx context.Context, institutionID string, req FacultyRequest) (*models.Faculty, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	member := &models.Faculty{
		InstitutionID:    institutionID,
		Campus:           req.Campus,
		Name:             req.Name,
		EmploymentStatus: models.EmploymentStatus(req.EmploymentStatus),
		Attainment:       models.Attainment(req.Attainment),
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty member")
	}
	return member, nil
}

// Update modifies an owned roster member.
func (s *FacultyService) Update(ctx context.Context, institutionID, id string, req FacultyRequest) (*models.Faculty, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	member, err := s.findOwned(ctx, institutionID, id)
	if err != nil {
		return nil, err
	}
	member.Campus = req.Campus
	member.Name = req.Name
	member.EmploymentStatus = models.EmploymentStatus(req.EmploymentStatus)
	member.Attainment = models.Attainment(req.Attainment)
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty member")
	}
	return member, nil
}

// Delete removes an owned roster member.
func (s *FacultyService) Delete(ctx context.Context, institutionID, id string) error {
	if _, err := s.findOwned(ctx, institutionID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty member")
	}
	return nil
}

func (s *FacultyService) validateRequest(req FacultyRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	if !models.ValidEmploymentStatus(req.EmploymentStatus) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown employment status %q", req.EmploymentStatus))
	}
	if !models.ValidAttainment(req.Attainment) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown attainment %q", req.Attainment))
	}
	return nil
}

func (s *FacultyService) findOwned(ctx context.Context, institutionID, id string) (*models.Faculty, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty member")
	}
	if member.InstitutionID != institutionID {
		return nil, appErrors.ErrNotOwner
	}
	return member, nil
}
