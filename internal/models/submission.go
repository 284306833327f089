package models

import "time"

// FormType identifies which periodic report a submission carries.
type FormType string

const (
	FormType1 FormType = "form1"
	FormType2 FormType = "form2"
)

// Label returns the human form name used in generated file names.
func (f FormType) Label() string {
	switch f {
	case FormType1:
		return "Form 1"
	case FormType2:
		return "Form 2"
	}
	return string(f)
}

// ValidFormType reports whether raw names a known form.
func ValidFormType(raw string) bool {
	switch FormType(raw) {
	case FormType1, FormType2:
		return true
	}
	return false
}

// Submission records one generated document stored remotely. The object
// reference is immutable once written; corrections create a new row.
type Submission struct {
	ID            string    `db:"id" json:"id"`
	InstitutionID string    `db:"institution_id" json:"institution_id"`
	Campus        string    `db:"campus" json:"campus"`
	FormType      FormType  `db:"form_type" json:"form_type"`
	ObjectID      string    `db:"object_id" json:"object_id"`
	FileName      string    `db:"file_name" json:"file_name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// SubmissionFilter captures supported filters for listing submissions.
type SubmissionFilter struct {
	InstitutionID string
	Campus        string
	FormType      string
}
