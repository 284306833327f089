package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hei-portal-api/internal/models"
)

// RegistrationRepository handles sign-up requests.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository creates a new repository instance.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, institution_name, campus, street, municipality, province, region,
	representative, email, status, created_at, updated_at`

// List returns registrations matching the filter, newest first. Region
// filtering happens in the service because stored regions are free text.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	query := fmt.Sprintf("SELECT %s FROM registrations WHERE 1=1", registrationColumns)
	var args []interface{}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"

	var registrations []models.Registration
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return registrations, nil
}

// FindByID returns a registration by id.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	query := fmt.Sprintf("SELECT %s FROM registrations WHERE id = $1", registrationColumns)
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// Create persists a new sign-up request.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = now
	}
	registration.UpdatedAt = now

	const query = `INSERT INTO registrations (id, institution_name, campus, street, municipality, province, region,
		representative, email, status, created_at, updated_at)
		VALUES (:id, :institution_name, :campus, :street, :municipality, :province, :region,
		:representative, :email, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// Provision approves a registration in one transaction: the institution
// row, the representative's account, and the status flip land together or
// not at all, so a failed approval can always be retried.
func (r *RegistrationRepository) Provision(ctx context.Context, registrationID string, institution *models.Institution, user *models.User) error {
	now := time.Now().UTC()
	if institution.ID == "" {
		institution.ID = uuid.NewString()
	}
	if institution.CreatedAt.IsZero() {
		institution.CreatedAt = now
	}
	institution.UpdatedAt = now
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin provision: %w", err)
	}

	const institutionQuery = `INSERT INTO institutions (id, name, campus, address, region, academic_year, created_at, updated_at)
		VALUES (:id, :name, :campus, :address, :region, :academic_year, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, institutionQuery, institution); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("provision institution: %w", err)
	}

	const userQuery = `INSERT INTO users (id, email, full_name, password_hash, role, region, institution_id, active, created_at, updated_at)
		VALUES (:id, :email, :full_name, :password_hash, :role, :region, :institution_id, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("provision account: %w", err)
	}

	const statusQuery = `UPDATE registrations SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, statusQuery, registrationID, models.StatusApproved, now); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("record approval: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit provision: %w", err)
	}
	return nil
}

// UpdateStatus records the review outcome.
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE registrations SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	return nil
}

// Delete removes a registration (decline path).
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}
