package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hei-portal-api/internal/models"
)

// MasterProgramRepository handles the central degree-program catalog.
type MasterProgramRepository struct {
	db *sqlx.DB
}

// NewMasterProgramRepository creates a new repository instance.
func NewMasterProgramRepository(db *sqlx.DB) *MasterProgramRepository {
	return &MasterProgramRepository{db: db}
}

// List returns the full catalog ordered by code.
func (r *MasterProgramRepository) List(ctx context.Context) ([]models.MasterProgram, error) {
	const query = `SELECT id, code, title, created_at, updated_at FROM master_programs ORDER BY code ASC`
	var programs []models.MasterProgram
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list master programs: %w", err)
	}
	return programs, nil
}

// FindByID returns a catalog entry by id.
func (r *MasterProgramRepository) FindByID(ctx context.Context, id string) (*models.MasterProgram, error) {
	const query = `SELECT id, code, title, created_at, updated_at FROM master_programs WHERE id = $1`
	var program models.MasterProgram
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// ExistsByCode checks catalog code uniqueness.
func (r *MasterProgramRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM master_programs WHERE LOWER(code) = LOWER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("check master program code: %w", err)
	}
	return true, nil
}

// Create persists a new catalog entry.
func (r *MasterProgramRepository) Create(ctx context.Context, program *models.MasterProgram) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if program.CreatedAt.IsZero() {
		program.CreatedAt = now
	}
	program.UpdatedAt = now

	const query = `INSERT INTO master_programs (id, code, title, created_at, updated_at)
		VALUES (:id, :code, :title, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create master program: %w", err)
	}
	return nil
}

// Update modifies a catalog entry.
func (r *MasterProgramRepository) Update(ctx context.Context, program *models.MasterProgram) error {
	program.UpdatedAt = time.Now().UTC()
	const query = `UPDATE master_programs SET code = :code, title = :title, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("update master program: %w", err)
	}
	return nil
}

// Delete removes a catalog entry.
func (r *MasterProgramRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM master_programs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete master program: %w", err)
	}
	return nil
}

// ProgramRequestRepository handles HEI program-adoption requests.
type ProgramRequestRepository struct {
	db *sqlx.DB
}

// NewProgramRequestRepository creates a new repository instance.
func NewProgramRequestRepository(db *sqlx.DB) *ProgramRequestRepository {
	return &ProgramRequestRepository{db: db}
}

const programRequestColumns = `id, institution_id, master_program_id, program_code, program_title,
	curriculum_object_id, curriculum_link, status, created_at, updated_at`

// List returns requests matching the filter, newest first.
func (r *ProgramRequestRepository) List(ctx context.Context, filter models.ProgramRequestFilter) ([]models.ProgramRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM program_requests WHERE 1=1", programRequestColumns)
	var args []interface{}

	if filter.InstitutionID != "" {
		query += fmt.Sprintf(" AND institution_id = $%d", len(args)+1)
		args = append(args, filter.InstitutionID)
	} else if len(filter.InstitutionIDs) > 0 {
		clause, clauseArgs := inClause("institution_id", filter.InstitutionIDs, len(args))
		query += " AND " + clause
		args = append(args, clauseArgs...)
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"

	var requests []models.ProgramRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list program requests: %w", err)
	}
	return requests, nil
}

// FindByID returns a request by id.
func (r *ProgramRequestRepository) FindByID(ctx context.Context, id string) (*models.ProgramRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM program_requests WHERE id = $1", programRequestColumns)
	var request models.ProgramRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Create persists a new request.
func (r *ProgramRequestRepository) Create(ctx context.Context, request *models.ProgramRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now

	const query = `INSERT INTO program_requests (id, institution_id, master_program_id, program_code, program_title,
		curriculum_object_id, curriculum_link, status, created_at, updated_at)
		VALUES (:id, :institution_id, :master_program_id, :program_code, :program_title,
		:curriculum_object_id, :curriculum_link, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create program request: %w", err)
	}
	return nil
}

// ReplaceCurriculum swaps the curriculum reference and resets the review
// state in one statement, so re-submission always restarts review.
func (r *ProgramRequestRepository) ReplaceCurriculum(ctx context.Context, id, objectID, link string, status models.ApprovalStatus) error {
	const query = `UPDATE program_requests SET curriculum_object_id = $2, curriculum_link = $3, status = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, objectID, link, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("replace curriculum: %w", err)
	}
	return nil
}

// UpdateStatus records a review decision.
func (r *ProgramRequestRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE program_requests SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update program request status: %w", err)
	}
	return nil
}

// Delete removes a request.
func (r *ProgramRequestRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM program_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete program request: %w", err)
	}
	return nil
}
