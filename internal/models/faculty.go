package models

import "time"

// EmploymentStatus enumerates faculty employment arrangements.
type EmploymentStatus string

const (
	EmploymentPermanent   EmploymentStatus = "Permanent"
	EmploymentTemporary   EmploymentStatus = "Temporary"
	EmploymentContractual EmploymentStatus = "Contractual/COS"
)

// Attainment enumerates the highest educational attainment of a faculty
// member. The report templates render it as a one-hot check mark.
type Attainment string

const (
	AttainmentBachelor Attainment = "Bachelor's"
	AttainmentMaster   Attainment = "Master's"
	AttainmentDoctoral Attainment = "Doctoral"
)

// ValidEmploymentStatus reports whether raw names a known arrangement.
func ValidEmploymentStatus(raw string) bool {
	switch EmploymentStatus(raw) {
	case EmploymentPermanent, EmploymentTemporary, EmploymentContractual:
		return true
	}
	return false
}

// ValidAttainment reports whether raw names a known attainment level.
func ValidAttainment(raw string) bool {
	switch Attainment(raw) {
	case AttainmentBachelor, AttainmentMaster, AttainmentDoctoral:
		return true
	}
	return false
}

// Faculty is one roster member of an institution campus. Fully owned by
// the HEI; no review workflow applies.
type Faculty struct {
	ID               string           `db:"id" json:"id"`
	InstitutionID    string           `db:"institution_id" json:"institution_id"`
	Campus           string           `db:"campus" json:"campus"`
	Name             string           `db:"name" json:"name"`
	EmploymentStatus EmploymentStatus `db:"employment_status" json:"employment_status"`
	Attainment       Attainment       `db:"attainment" json:"attainment"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// FacultyFilter narrows roster listings.
type FacultyFilter struct {
	InstitutionID string
	Campus        string
}
