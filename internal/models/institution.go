package models

import "time"

// Institution represents a higher-education institution campus record.
// Rows are created when a registration is approved and are read-only to
// the submission pipeline.
type Institution struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Campus       string    `db:"campus" json:"campus"`
	Address      string    `db:"address" json:"address"`
	Region       string    `db:"region" json:"region"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// InstitutionFilter narrows institution listings.
type InstitutionFilter struct {
	Region string
	Name   string
}

// InstitutionDirectoryEntry aggregates the campuses registered under one
// institution name.
type InstitutionDirectoryEntry struct {
	Name     string   `json:"name"`
	Region   string   `json:"region"`
	Campuses []string `json:"campuses"`
}
