package models

// ApprovalStatus is the review state shared by subjects, program requests
// and registrations.
type ApprovalStatus string

const (
	StatusForApproval ApprovalStatus = "For Approval"
	StatusApproved    ApprovalStatus = "Approved"
	StatusDeclined    ApprovalStatus = "Declined"
)

// ValidStatus reports whether raw is one of the known review states.
func ValidStatus(raw string) bool {
	switch ApprovalStatus(raw) {
	case StatusForApproval, StatusApproved, StatusDeclined:
		return true
	}
	return false
}

// RegionAll marks an unrestricted reviewer who may act on any region.
const RegionAll = "ALL"

// AdminContext carries the reviewer identity derived from the access token.
// It is built once per request and passed explicitly into every approval
// operation.
type AdminContext struct {
	Region        string
	Unrestricted  bool
	InstitutionID string
}
