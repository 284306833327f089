package models

import "time"

// MasterProgram is one entry of the centrally curated degree-program
// catalog. It has no owning institution.
type MasterProgram struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProgramRequest is an HEI's request to adopt a catalog program, optionally
// backed by an uploaded curriculum document.
type ProgramRequest struct {
	ID                string         `db:"id" json:"id"`
	InstitutionID     string         `db:"institution_id" json:"institution_id"`
	MasterProgramID   string         `db:"master_program_id" json:"master_program_id"`
	ProgramCode       string         `db:"program_code" json:"program_code"`
	ProgramTitle      string         `db:"program_title" json:"program_title"`
	CurriculumObjectID *string       `db:"curriculum_object_id" json:"curriculum_object_id,omitempty"`
	CurriculumLink    *string        `db:"curriculum_link" json:"curriculum_link,omitempty"`
	Status            ApprovalStatus `db:"status" json:"status"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// ProgramRequestFilter narrows request listings, mirroring SubjectFilter.
type ProgramRequestFilter struct {
	InstitutionID  string
	InstitutionIDs []string
	Status         string
}
