package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hei-portal-api/internal/models"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

type masterProgramRepository interface {
	List(ctx context.Context) ([]models.MasterProgram, error)
	FindByID(ctx context.Context, id string) (*models.MasterProgram, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, program *models.MasterProgram) error
	Update(ctx context.Context, program *models.MasterProgram) error
	Delete(ctx context.Context, id string) error
}

// MasterProgramRequest holds payload for catalog maintenance.
type MasterProgramRequest struct {
	Code  string `json:"code" validate:"required"`
	Title string `json:"title" validate:"required"`
}

// MasterProgramService maintains the central degree-program catalog.
// Writes are reviewer-only; reads are open to HEI accounts picking a
// program to request.
type MasterProgramService struct {
	repo      masterProgramRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMasterProgramService constructs the catalog service.
func NewMasterProgramService(repo masterProgramRepository, validate *validator.Validate, logger *zap.Logger) *MasterProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MasterProgramService{repo: repo, validator: validate, logger: logger}
}

// List returns the full catalog ordered by code.
func (s *MasterProgramService) List(ctx context.Context) ([]models.MasterProgram, error) {
	programs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catalog")
	}
	if programs == nil {
		programs = []models.MasterProgram{}
	}
	return programs, nil
}

// Create adds a catalog entry. Codes are unique ignoring case.
func (s *MasterProgramService) Create(ctx context.Context, req MasterProgramRequest) (*models.MasterProgram, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid catalog payload")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check program code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a program with this code already exists")
	}
	program := &models.MasterProgram{Code: req.Code, Title: req.Title}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}
	s.logger.Info("catalog program added", zap.String("program_id", program.ID), zap.String("code", program.Code))
	return program, nil
}

// Update edits a catalog entry's code and title. Requests already opened
// against the entry keep their denormalised copies.
func (s *MasterProgramService) Update(ctx context.Context, id string, req MasterProgramRequest) (*models.MasterProgram, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid catalog payload")
	}
	program, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	program.Code = req.Code
	program.Title = req.Title
	if err := s.repo.Update(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}
	return program, nil
}

// Delete removes a catalog entry.
func (s *MasterProgramService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	return nil
}

func (s *MasterProgramService) find(ctx context.Context, id string) (*models.MasterProgram, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "catalog program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}
