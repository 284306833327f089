package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hei-portal-api/internal/models"
)

// SubmissionRepository handles submission document metadata rows.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new repository instance.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = "id, institution_id, campus, form_type, object_id, file_name, created_at"

// List returns submissions matching the filter, newest first.
func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM submissions WHERE 1=1", submissionColumns)
	var args []interface{}

	if filter.InstitutionID != "" {
		query += fmt.Sprintf(" AND institution_id = $%d", len(args)+1)
		args = append(args, filter.InstitutionID)
	}
	if filter.Campus != "" {
		query += fmt.Sprintf(" AND campus = $%d", len(args)+1)
		args = append(args, filter.Campus)
	}
	if filter.FormType != "" {
		query += fmt.Sprintf(" AND form_type = $%d", len(args)+1)
		args = append(args, filter.FormType)
	}
	query += " ORDER BY created_at DESC"

	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// FindByID returns a submission by id.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM submissions WHERE id = $1", submissionColumns)
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// Create records a stored document. The object reference is never
// rewritten afterwards; corrections insert a new row.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO submissions (id, institution_id, campus, form_type, object_id, file_name, created_at)
		VALUES (:id, :institution_id, :campus, :form_type, :object_id, :file_name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// Delete removes a submission metadata row.
func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}
