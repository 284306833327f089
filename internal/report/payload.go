package report

import (
	"fmt"

	"github.com/noah-isme/hei-portal-api/internal/models"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

// SubjectRow is one integrated or elective subject entry of a form payload.
type SubjectRow struct {
	Subject          string   `json:"subject"`
	Units            *float64 `json:"units,omitempty"`
	DegreeProgram    string   `json:"degree_program,omitempty"`
	Faculty          string   `json:"faculty"`
	EmploymentStatus string   `json:"employment_status,omitempty"`
	Attainment       string   `json:"attainment,omitempty"`
}

// ProgramRow is one program/specialization entry (form 2 only).
type ProgramRow struct {
	Specialization      string `json:"specialization"`
	GovernmentAuthority string `json:"government_authority,omitempty"`
	AcademicYearStarted string `json:"ay_started,omitempty"`
	EnrollmentYear1     int    `json:"enrollment_y1"`
	EnrollmentYear2     int    `json:"enrollment_y2"`
	EnrollmentYear3     int    `json:"enrollment_y3"`
	Faculty             string `json:"faculty"`
	EmploymentStatus    string `json:"employment_status,omitempty"`
	Attainment          string `json:"attainment,omitempty"`
}

// Payload is the structured form content a client submits for rendering.
type Payload struct {
	Integrated []SubjectRow `json:"integrated"`
	Elective   []SubjectRow `json:"elective"`
	Programs   []ProgramRow `json:"programs,omitempty"`
}

// Header carries the institution metadata written into the header block.
// Zero values are skipped; a missing header is not an error.
type Header struct {
	Institution string
	Region      string
	Address     string
}

// Validate checks required fields and enum values before any external
// call. Capacity limits are enforced separately against the layout.
func (p Payload) Validate(formType models.FormType) error {
	if len(p.Integrated) == 0 && len(p.Elective) == 0 && len(p.Programs) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "payload contains no rows")
	}
	if formType == models.FormType1 && len(p.Programs) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "form 1 does not carry program rows")
	}
	for i, row := range p.Integrated {
		if err := validateSubjectRow("integrated", i, row); err != nil {
			return err
		}
	}
	for i, row := range p.Elective {
		if err := validateSubjectRow("elective", i, row); err != nil {
			return err
		}
	}
	for i, row := range p.Programs {
		if row.Specialization == "" {
			return rowError("programs", i, "specialization is required")
		}
		if row.EnrollmentYear1 < 0 || row.EnrollmentYear2 < 0 || row.EnrollmentYear3 < 0 {
			return rowError("programs", i, "enrollment counts must not be negative")
		}
		if row.Attainment != "" && !models.ValidAttainment(row.Attainment) {
			return rowError("programs", i, "unknown educational attainment")
		}
		if row.EmploymentStatus != "" && !models.ValidEmploymentStatus(row.EmploymentStatus) {
			return rowError("programs", i, "unknown employment status")
		}
	}
	return nil
}

func validateSubjectRow(block string, index int, row SubjectRow) error {
	if row.Subject == "" {
		return rowError(block, index, "subject is required")
	}
	if row.Units != nil && *row.Units < 0 {
		return rowError(block, index, "units must not be negative")
	}
	if row.Attainment != "" && !models.ValidAttainment(row.Attainment) {
		return rowError(block, index, "unknown educational attainment")
	}
	if row.EmploymentStatus != "" && !models.ValidEmploymentStatus(row.EmploymentStatus) {
		return rowError(block, index, "unknown employment status")
	}
	return nil
}

func rowError(block string, index int, msg string) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s row %d: %s", block, index, msg))
}
