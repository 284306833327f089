package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/hei-portal-api/internal/models"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

type mockRegistrationRepo struct {
	registrations map[string]models.Registration
	statuses      map[string]models.ApprovalStatus
	deleted       []string

	provisionErr          error
	provisionInstitutions []models.Institution
	provisionUsers        []models.User
}

func (m *mockRegistrationRepo) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	out := make([]models.Registration, 0, len(m.registrations))
	for _, r := range m.registrations {
		if filter.Status == "" || string(r.Status) == filter.Status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRegistrationRepo) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	if r, ok := m.registrations[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRegistrationRepo) Create(ctx context.Context, registration *models.Registration) error {
	if m.registrations == nil {
		m.registrations = make(map[string]models.Registration)
	}
	if registration.ID == "" {
		registration.ID = "generated"
	}
	m.registrations[registration.ID] = *registration
	return nil
}

func (m *mockRegistrationRepo) Provision(ctx context.Context, registrationID string, institution *models.Institution, user *models.User) error {
	if m.provisionErr != nil {
		err := m.provisionErr
		m.provisionErr = nil
		return err
	}
	if institution.ID == "" {
		institution.ID = "inst-1"
	}
	if user.ID == "" {
		user.ID = "user-1"
	}
	m.provisionInstitutions = append(m.provisionInstitutions, *institution)
	m.provisionUsers = append(m.provisionUsers, *user)
	if m.statuses == nil {
		m.statuses = make(map[string]models.ApprovalStatus)
	}
	m.statuses[registrationID] = models.StatusApproved
	return nil
}

func (m *mockRegistrationRepo) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.ApprovalStatus)
	}
	m.statuses[id] = status
	return nil
}

func (m *mockRegistrationRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockInstitutionChecker struct {
	existing map[string]bool
}

func (m *mockInstitutionChecker) ExistsByNameAndCampus(ctx context.Context, name, campus string) (bool, error) {
	return m.existing[name+"/"+campus], nil
}

type mockUserChecker struct {
	emails map[string]bool
}

func (m *mockUserChecker) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emails[email], nil
}

type mockDirectory struct {
	invalidations int
}

func (m *mockDirectory) Invalidate(ctx context.Context) {
	m.invalidations++
}

func pendingRegistration() models.Registration {
	return models.Registration{
		ID:              "reg-1",
		InstitutionName: "Northern State College",
		Campus:          "Main",
		Street:          "Rizal St",
		Municipality:    "Laoag",
		Province:        "Ilocos Norte",
		Region:          "region 1 (Ilocos)",
		Representative:  "A. Reyes",
		Email:           "a.reyes@nsc.edu.ph",
		Status:          models.StatusForApproval,
	}
}

func TestRegistrationServiceApproveProvisionsEverything(t *testing.T) {
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{"reg-1": pendingRegistration()}}
	directory := &mockDirectory{}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, directory, nil, nil)

	// The stored region is applicant free text; the reviewer's short
	// code still matches it.
	result, err := svc.Approve(context.Background(), models.AdminContext{Region: "Region 1"}, "reg-1")
	require.NoError(t, err)

	require.Len(t, repo.provisionInstitutions, 1)
	institution := repo.provisionInstitutions[0]
	assert.Equal(t, "Northern State College", institution.Name)
	assert.Contains(t, institution.Address, "Laoag")
	assert.Equal(t, "Region I", institution.Region)

	require.Len(t, repo.provisionUsers, 1)
	user := repo.provisionUsers[0]
	assert.Equal(t, models.RoleHEI, user.Role)
	require.NotNil(t, user.InstitutionID)
	assert.Equal(t, institution.ID, *user.InstitutionID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(result.TempPassword)))

	assert.Equal(t, models.StatusApproved, repo.statuses["reg-1"])
	assert.Equal(t, 1, directory.invalidations)
}

func TestRegistrationServiceApproveOutsideRegion(t *testing.T) {
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{"reg-1": pendingRegistration()}}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	_, err := svc.Approve(context.Background(), models.AdminContext{Region: "Region 7"}, "reg-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRegionMismatch.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.provisionInstitutions)
	assert.Empty(t, repo.provisionUsers)
}

func TestRegistrationServiceApproveUnrestrictedReviewer(t *testing.T) {
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{"reg-1": pendingRegistration()}}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	_, err := svc.Approve(context.Background(), models.AdminContext{Region: models.RegionAll, Unrestricted: true}, "reg-1")
	require.NoError(t, err)
}

func TestRegistrationServiceApproveUnrestrictedIgnoresRegionClaim(t *testing.T) {
	// The unrestricted flag alone must open the gate, whatever string the
	// Region claim carries.
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{"reg-1": pendingRegistration()}}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	_, err := svc.Approve(context.Background(), models.AdminContext{Region: "", Unrestricted: true}, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, repo.statuses["reg-1"])
}

func TestRegistrationServiceApproveRetryableAfterProvisionFailure(t *testing.T) {
	repo := &mockRegistrationRepo{
		registrations: map[string]models.Registration{"reg-1": pendingRegistration()},
		provisionErr:  errors.New("account insert failed"),
	}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	_, err := svc.Approve(context.Background(), models.AdminContext{Region: "Region 1"}, "reg-1")
	require.Error(t, err)
	assert.Empty(t, repo.provisionInstitutions)
	assert.NotEqual(t, models.StatusApproved, repo.statuses["reg-1"])

	// nothing was left behind, so the same approval succeeds on retry
	result, err := svc.Approve(context.Background(), models.AdminContext{Region: "Region 1"}, "reg-1")
	require.NoError(t, err)
	require.Len(t, repo.provisionInstitutions, 1)
	assert.NotEmpty(t, result.TempPassword)
}

func TestRegistrationServiceApproveTwiceConflicts(t *testing.T) {
	reg := pendingRegistration()
	reg.Status = models.StatusApproved
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{"reg-1": reg}}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	_, err := svc.Approve(context.Background(), models.AdminContext{Unrestricted: true}, "reg-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegistrationServiceApproveDuplicateCampus(t *testing.T) {
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{"reg-1": pendingRegistration()}}
	institutions := &mockInstitutionChecker{existing: map[string]bool{"Northern State College/Main": true}}
	svc := NewRegistrationService(repo, institutions, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	_, err := svc.Approve(context.Background(), models.AdminContext{Unrestricted: true}, "reg-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegistrationServiceCreateDuplicateEmail(t *testing.T) {
	users := &mockUserChecker{emails: map[string]bool{"a.reyes@nsc.edu.ph": true}}
	svc := NewRegistrationService(&mockRegistrationRepo{}, &mockInstitutionChecker{}, users, &mockDirectory{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateRegistrationRequest{
		InstitutionName: "Northern State College",
		Campus:          "Main",
		Municipality:    "Laoag",
		Province:        "Ilocos Norte",
		Region:          "Region 1",
		Representative:  "A. Reyes",
		Email:           "a.reyes@nsc.edu.ph",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegistrationServiceListForReviewerFiltersFreeTextRegion(t *testing.T) {
	other := pendingRegistration()
	other.ID = "reg-2"
	other.Region = "Region VII (Central Visayas)"
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{
		"reg-1": pendingRegistration(),
		"reg-2": other,
	}}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	scoped, err := svc.ListForReviewer(context.Background(), models.AdminContext{Region: "Region 7"}, "")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "reg-2", scoped[0].ID)

	all, err := svc.ListForReviewer(context.Background(), models.AdminContext{Unrestricted: true}, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRegistrationServiceDeclineUnrestrictedReviewer(t *testing.T) {
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{"reg-1": pendingRegistration()}}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	reg, err := svc.Decline(context.Background(), models.AdminContext{Region: "", Unrestricted: true}, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, reg.Status)
}

func TestRegistrationServiceDeleteRegionGate(t *testing.T) {
	repo := &mockRegistrationRepo{registrations: map[string]models.Registration{"reg-1": pendingRegistration()}}
	svc := NewRegistrationService(repo, &mockInstitutionChecker{}, &mockUserChecker{}, &mockDirectory{}, nil, nil)

	err := svc.Delete(context.Background(), models.AdminContext{Region: "Region 5"}, "reg-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRegionMismatch.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), models.AdminContext{Region: "Region 1"}, "reg-1"))
	assert.Equal(t, []string{"reg-1"}, repo.deleted)
}
