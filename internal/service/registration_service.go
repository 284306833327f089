package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/region"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

type registrationRepository interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	Create(ctx context.Context, registration *models.Registration) error
	Provision(ctx context.Context, registrationID string, institution *models.Institution, user *models.User) error
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error
	Delete(ctx context.Context, id string) error
}

type institutionChecker interface {
	ExistsByNameAndCampus(ctx context.Context, name, campus string) (bool, error)
}

type userChecker interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type directoryInvalidator interface {
	Invalidate(ctx context.Context)
}

// CreateRegistrationRequest is the public sign-up payload. The region is
// free text; it is matched leniently at review time.
type CreateRegistrationRequest struct {
	InstitutionName string `json:"institution_name" validate:"required"`
	Campus          string `json:"campus" validate:"required"`
	Street          string `json:"street"`
	Municipality    string `json:"municipality" validate:"required"`
	Province        string `json:"province" validate:"required"`
	Region          string `json:"region" validate:"required"`
	Representative  string `json:"representative" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
}

// RegistrationApproval reports the accounts provisioned by an approval.
// The temporary password is shown exactly once.
type RegistrationApproval struct {
	Registration *models.Registration `json:"registration"`
	Institution  *models.Institution  `json:"institution"`
	UserEmail    string               `json:"user_email"`
	TempPassword string               `json:"temp_password"`
}

// RegistrationService handles HEI sign-up and onboarding.
type RegistrationService struct {
	repo         registrationRepository
	institutions institutionChecker
	users        userChecker
	directory    directoryInvalidator
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(repo registrationRepository, institutions institutionChecker, users userChecker, directory directoryInvalidator, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		repo:         repo,
		institutions: institutions,
		users:        users,
		directory:    directory,
		validator:    validate,
		logger:       logger,
	}
}

// Create records a sign-up request awaiting review. Duplicate pending
// requests are allowed; reviewers resolve them.
func (s *RegistrationService) Create(ctx context.Context, req CreateRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an account already exists for this email")
	}

	registration := &models.Registration{
		InstitutionName: req.InstitutionName,
		Campus:          req.Campus,
		Street:          req.Street,
		Municipality:    req.Municipality,
		Province:        req.Province,
		Region:          req.Region,
		Representative:  req.Representative,
		Email:           req.Email,
		Status:          models.StatusForApproval,
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record registration")
	}
	s.logger.Info("registration received",
		zap.String("registration_id", registration.ID),
		zap.String("institution", registration.InstitutionName))
	return registration, nil
}

// ListForReviewer returns sign-ups the reviewer may act on. Stored
// regions are applicant free text, so the region filter runs here rather
// than in SQL.
func (s *RegistrationService) ListForReviewer(ctx context.Context, admin models.AdminContext, status string) ([]models.Registration, error) {
	registrations, err := s.repo.List(ctx, models.RegistrationFilter{Status: status})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	if admin.Unrestricted {
		if registrations == nil {
			registrations = []models.Registration{}
		}
		return registrations, nil
	}
	scoped := make([]models.Registration, 0, len(registrations))
	for _, reg := range registrations {
		if region.Match(reg.Region, admin.Region) {
			scoped = append(scoped, reg)
		}
	}
	return scoped, nil
}

// Approve accepts a sign-up inside the reviewer's region, creates the
// institution record and provisions the representative's account with a
// one-time password.
func (s *RegistrationService) Approve(ctx context.Context, admin models.AdminContext, id string) (*RegistrationApproval, error) {
	registration, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRegion(admin, registration); err != nil {
		return nil, err
	}
	if registration.Status != models.StatusForApproval {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration has already been reviewed")
	}

	exists, err := s.institutions.ExistsByNameAndCampus(ctx, registration.InstitutionName, registration.Campus)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check institution")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "this institution campus is already registered")
	}

	institution := &models.Institution{
		Name:    registration.InstitutionName,
		Campus:  registration.Campus,
		Address: registration.PostalAddress(),
		Region:  region.Canonical(registration.Region),
	}

	tempPassword := uuid.NewString()[:13]
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	user := &models.User{
		Email:         registration.Email,
		FullName:      registration.Representative,
		PasswordHash:  string(hash),
		Role:          models.RoleHEI,
		Region:        institution.Region,
		InstitutionID: &institution.ID,
		Active:        true,
	}

	// Institution, account and status flip commit together; a failure
	// leaves no partial rows, so the approval stays retryable.
	if err := s.repo.Provision(ctx, id, institution, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to provision registration")
	}
	registration.Status = models.StatusApproved

	if s.directory != nil {
		s.directory.Invalidate(ctx)
	}
	s.logger.Info("registration approved",
		zap.String("registration_id", id),
		zap.String("institution_id", institution.ID),
		zap.String("reviewer_region", admin.Region))

	return &RegistrationApproval{
		Registration: registration,
		Institution:  institution,
		UserEmail:    user.Email,
		TempPassword: tempPassword,
	}, nil
}

// Decline rejects a sign-up inside the reviewer's region.
func (s *RegistrationService) Decline(ctx context.Context, admin models.AdminContext, id string) (*models.Registration, error) {
	registration, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRegion(admin, registration); err != nil {
		return nil, err
	}
	if registration.Status != models.StatusForApproval {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration has already been reviewed")
	}
	if err := s.repo.UpdateStatus(ctx, id, models.StatusDeclined); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decline")
	}
	registration.Status = models.StatusDeclined
	s.logger.Info("registration declined", zap.String("registration_id", id))
	return registration, nil
}

// Delete removes a sign-up row inside the reviewer's region.
func (s *RegistrationService) Delete(ctx context.Context, admin models.AdminContext, id string) error {
	registration, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkRegion(admin, registration); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete registration")
	}
	return nil
}

// checkRegion gates review actions on the reviewer's region. Stored
// regions are applicant free text, so the comparison is lenient; the
// unrestricted super-role passes unconditionally.
func (s *RegistrationService) checkRegion(admin models.AdminContext, registration *models.Registration) error {
	if admin.Unrestricted {
		return nil
	}
	if !region.Match(registration.Region, admin.Region) {
		return appErrors.ErrRegionMismatch
	}
	return nil
}

func (s *RegistrationService) find(ctx context.Context, id string) (*models.Registration, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return registration, nil
}
