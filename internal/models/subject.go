package models

import "time"

// SubjectKind distinguishes the three reviewable subject categories.
type SubjectKind string

const (
	SubjectIntegrated    SubjectKind = "Integrated"
	SubjectElective      SubjectKind = "Elective"
	SubjectDegreeProgram SubjectKind = "Degree Program"
)

// ValidSubjectKind reports whether raw names a known subject kind.
func ValidSubjectKind(raw string) bool {
	switch SubjectKind(raw) {
	case SubjectIntegrated, SubjectElective, SubjectDegreeProgram:
		return true
	}
	return false
}

// Subject is a reviewable curriculum entry submitted by an HEI. Integrated
// and elective subjects carry a unit count; degree-program entries carry
// the government authority reference and enrollment history instead.
type Subject struct {
	ID            string      `db:"id" json:"id"`
	InstitutionID string      `db:"institution_id" json:"institution_id"`
	Campus        string      `db:"campus" json:"campus"`
	Kind          SubjectKind `db:"kind" json:"kind"`
	Code          string      `db:"code" json:"code"`
	Title         string      `db:"title" json:"title"`
	Units         *float64    `db:"units" json:"units,omitempty"`

	GovernmentAuthority *string `db:"government_authority" json:"government_authority,omitempty"`
	AcademicYearStarted *string `db:"ay_started" json:"ay_started,omitempty"`
	EnrollmentYear1     *int    `db:"enrollment_y1" json:"enrollment_y1,omitempty"`
	EnrollmentYear2     *int    `db:"enrollment_y2" json:"enrollment_y2,omitempty"`
	EnrollmentYear3     *int    `db:"enrollment_y3" json:"enrollment_y3,omitempty"`

	SyllabusObjectID string `db:"syllabus_object_id" json:"syllabus_object_id"`
	SyllabusLink     string `db:"syllabus_link" json:"syllabus_link"`

	Status    ApprovalStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects. When
// InstitutionID is empty the caller must scope by InstitutionIDs, the set
// resolved from the reviewer's region.
type SubjectFilter struct {
	InstitutionID  string
	InstitutionIDs []string
	Campus         string
	Status         string
	Kind           string
}
