package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hei-portal-api/internal/models"
)

// InstitutionRepository handles persistence for HEI campus records.
type InstitutionRepository struct {
	db *sqlx.DB
}

// NewInstitutionRepository creates a new repository instance.
func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

const institutionColumns = "id, name, campus, address, region, academic_year, created_at, updated_at"

// List returns institutions matching the filter, ordered by name then campus.
func (r *InstitutionRepository) List(ctx context.Context, filter models.InstitutionFilter) ([]models.Institution, error) {
	query := fmt.Sprintf("SELECT %s FROM institutions WHERE 1=1", institutionColumns)
	var args []interface{}

	if filter.Region != "" {
		query += fmt.Sprintf(" AND region = $%d", len(args)+1)
		args = append(args, filter.Region)
	}
	if filter.Name != "" {
		query += fmt.Sprintf(" AND LOWER(name) = LOWER($%d)", len(args)+1)
		args = append(args, filter.Name)
	}
	query += " ORDER BY name ASC, campus ASC"

	var institutions []models.Institution
	if err := r.db.SelectContext(ctx, &institutions, query, args...); err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	return institutions, nil
}

// FindByID returns an institution by id.
func (r *InstitutionRepository) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	query := fmt.Sprintf("SELECT %s FROM institutions WHERE id = $1", institutionColumns)
	var institution models.Institution
	if err := r.db.GetContext(ctx, &institution, query, id); err != nil {
		return nil, err
	}
	return &institution, nil
}

// IDsByRegion returns the id set of institutions assigned to the region.
func (r *InstitutionRepository) IDsByRegion(ctx context.Context, region string) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM institutions WHERE region = $1`, region); err != nil {
		return nil, fmt.Errorf("institution ids by region: %w", err)
	}
	return ids, nil
}

// Campuses returns the campus names registered under an institution name.
func (r *InstitutionRepository) Campuses(ctx context.Context, name string) ([]string, error) {
	var campuses []string
	const query = `SELECT campus FROM institutions WHERE LOWER(name) = LOWER($1) ORDER BY campus ASC`
	if err := r.db.SelectContext(ctx, &campuses, query, name); err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}

// Create persists a new institution record.
func (r *InstitutionRepository) Create(ctx context.Context, institution *models.Institution) error {
	if institution.ID == "" {
		institution.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if institution.CreatedAt.IsZero() {
		institution.CreatedAt = now
	}
	institution.UpdatedAt = now

	const query = `INSERT INTO institutions (id, name, campus, address, region, academic_year, created_at, updated_at)
		VALUES (:id, :name, :campus, :address, :region, :academic_year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, institution); err != nil {
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}

// ExistsByNameAndCampus checks whether the campus is already registered.
func (r *InstitutionRepository) ExistsByNameAndCampus(ctx context.Context, name, campus string) (bool, error) {
	const query = `SELECT 1 FROM institutions WHERE LOWER(name) = LOWER($1) AND LOWER(campus) = LOWER($2) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name, campus); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("check institution: %w", err)
	}
	return true, nil
}

// inClause expands an id set into a positional IN predicate.
func inClause(column string, ids []string, argOffset int) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", argOffset+i+1)
		args[i] = id
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}
