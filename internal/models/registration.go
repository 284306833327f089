package models

import "time"

// Registration is a prospective HEI representative's sign-up request.
// The region field is free text entered at sign-up time, so comparisons
// against reviewer regions tolerate formatting drift.
type Registration struct {
	ID              string         `db:"id" json:"id"`
	InstitutionName string         `db:"institution_name" json:"institution_name"`
	Campus          string         `db:"campus" json:"campus"`
	Street          string         `db:"street" json:"street"`
	Municipality    string         `db:"municipality" json:"municipality"`
	Province        string         `db:"province" json:"province"`
	Region          string         `db:"region" json:"region"`
	Representative  string         `db:"representative" json:"representative"`
	Email           string         `db:"email" json:"email"`
	Status          ApprovalStatus `db:"status" json:"status"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// PostalAddress joins the address components the way institution rows
// store them.
func (r Registration) PostalAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{r.Street, r.Municipality, r.Province, r.Region} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// RegistrationFilter narrows sign-up listings. Regions are applicant free
// text and are matched in the service layer, not here.
type RegistrationFilter struct {
	Status string
}
