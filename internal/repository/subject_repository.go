package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hei-portal-api/internal/models"
)

// SubjectRepository handles persistence for reviewable subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectColumns = `id, institution_id, campus, kind, code, title, units,
	government_authority, ay_started, enrollment_y1, enrollment_y2, enrollment_y3,
	syllabus_object_id, syllabus_link, status, created_at, updated_at`

// List returns subjects matching the filter, newest first.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE 1=1", subjectColumns)
	var args []interface{}

	if filter.InstitutionID != "" {
		query += fmt.Sprintf(" AND institution_id = $%d", len(args)+1)
		args = append(args, filter.InstitutionID)
	} else if len(filter.InstitutionIDs) > 0 {
		clause, clauseArgs := inClause("institution_id", filter.InstitutionIDs, len(args))
		query += " AND " + clause
		args = append(args, clauseArgs...)
	}
	if filter.Campus != "" {
		query += fmt.Sprintf(" AND campus = $%d", len(args)+1)
		args = append(args, filter.Campus)
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", len(args)+1)
		args = append(args, filter.Kind)
	}
	query += " ORDER BY created_at DESC"

	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, institution_id, campus, kind, code, title, units,
		government_authority, ay_started, enrollment_y1, enrollment_y2, enrollment_y3,
		syllabus_object_id, syllabus_link, status, created_at, updated_at)
		VALUES (:id, :institution_id, :campus, :kind, :code, :title, :units,
		:government_authority, :ay_started, :enrollment_y1, :enrollment_y2, :enrollment_y3,
		:syllabus_object_id, :syllabus_link, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a subject's descriptive fields.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET code = :code, title = :title, units = :units,
		government_authority = :government_authority, ay_started = :ay_started,
		enrollment_y1 = :enrollment_y1, enrollment_y2 = :enrollment_y2, enrollment_y3 = :enrollment_y3,
		updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// UpdateStatus records a review decision.
func (r *SubjectRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE subjects SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update subject status: %w", err)
	}
	return nil
}

// Delete removes a subject record.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
