package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hei-portal-api/internal/models"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
)

type mockProgramRequestRepo struct {
	requests map[string]models.ProgramRequest
	statuses map[string]models.ApprovalStatus
	replaced []string
	deleted  []string
}

func (m *mockProgramRequestRepo) List(ctx context.Context, filter models.ProgramRequestFilter) ([]models.ProgramRequest, error) {
	out := make([]models.ProgramRequest, 0, len(m.requests))
	for _, r := range m.requests {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockProgramRequestRepo) FindByID(ctx context.Context, id string) (*models.ProgramRequest, error) {
	if r, ok := m.requests[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgramRequestRepo) Create(ctx context.Context, request *models.ProgramRequest) error {
	if m.requests == nil {
		m.requests = make(map[string]models.ProgramRequest)
	}
	if request.ID == "" {
		request.ID = "generated"
	}
	m.requests[request.ID] = *request
	return nil
}

func (m *mockProgramRequestRepo) ReplaceCurriculum(ctx context.Context, id, objectID, link string, status models.ApprovalStatus) error {
	m.replaced = append(m.replaced, id)
	r := m.requests[id]
	r.CurriculumObjectID = &objectID
	r.CurriculumLink = &link
	r.Status = status
	m.requests[id] = r
	return nil
}

func (m *mockProgramRequestRepo) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.ApprovalStatus)
	}
	m.statuses[id] = status
	return nil
}

func (m *mockProgramRequestRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCatalog struct {
	programs map[string]models.MasterProgram
}

func (m *mockCatalog) FindByID(ctx context.Context, id string) (*models.MasterProgram, error) {
	if p, ok := m.programs[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func TestProgramRequestServiceCreateDenormalisesCatalogEntry(t *testing.T) {
	repo := &mockProgramRequestRepo{}
	catalog := &mockCatalog{programs: map[string]models.MasterProgram{
		"mp-1": {ID: "mp-1", Code: "BSIT", Title: "BS Information Technology"},
	}}
	svc := NewProgramRequestService(repo, catalog, &mockInstitutionResolver{}, &mockObjectStore{}, nil, nil, 0)

	request, err := svc.Create(context.Background(), "hei-1", CreateProgramRequestRequest{MasterProgramID: "mp-1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "BSIT", request.ProgramCode)
	assert.Equal(t, "BS Information Technology", request.ProgramTitle)
	assert.Equal(t, models.StatusForApproval, request.Status)
	assert.Nil(t, request.CurriculumObjectID)
}

func TestProgramRequestServiceCreateWithCurriculum(t *testing.T) {
	repo := &mockProgramRequestRepo{}
	catalog := &mockCatalog{programs: map[string]models.MasterProgram{
		"mp-1": {ID: "mp-1", Code: "BSIT", Title: "BS Information Technology"},
	}}
	store := &mockObjectStore{}
	svc := NewProgramRequestService(repo, catalog, &mockInstitutionResolver{}, store, nil, nil, 0)

	upload := DocumentUpload{FileName: "curriculum.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}
	request, err := svc.Create(context.Background(), "hei-1", CreateProgramRequestRequest{MasterProgramID: "mp-1"}, &upload)
	require.NoError(t, err)
	require.NotNil(t, request.CurriculumObjectID)
	assert.Equal(t, "obj-curriculum.pdf", *request.CurriculumObjectID)
	require.Len(t, store.stored, 1)
}

func TestProgramRequestServiceCreateUnknownProgram(t *testing.T) {
	svc := NewProgramRequestService(&mockProgramRequestRepo{}, &mockCatalog{}, &mockInstitutionResolver{}, &mockObjectStore{}, nil, nil, 0)

	_, err := svc.Create(context.Background(), "hei-1", CreateProgramRequestRequest{MasterProgramID: "missing"}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProgramRequestServiceReplaceCurriculumResetsApprovedRequest(t *testing.T) {
	repo := &mockProgramRequestRepo{requests: map[string]models.ProgramRequest{
		"pr-1": {ID: "pr-1", InstitutionID: "hei-1", Status: models.StatusApproved},
	}}
	svc := NewProgramRequestService(repo, &mockCatalog{}, &mockInstitutionResolver{}, &mockObjectStore{}, nil, nil, 0)

	upload := DocumentUpload{FileName: "revised.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}
	request, err := svc.ReplaceCurriculum(context.Background(), "hei-1", "pr-1", upload)
	require.NoError(t, err)
	assert.Equal(t, models.StatusForApproval, request.Status, "a new curriculum always goes back to review")
	assert.Equal(t, []string{"pr-1"}, repo.replaced)
}

func TestProgramRequestServiceReplaceCurriculumOwnership(t *testing.T) {
	repo := &mockProgramRequestRepo{requests: map[string]models.ProgramRequest{
		"pr-1": {ID: "pr-1", InstitutionID: "hei-1", Status: models.StatusForApproval},
	}}
	store := &mockObjectStore{}
	svc := NewProgramRequestService(repo, &mockCatalog{}, &mockInstitutionResolver{}, store, nil, nil, 0)

	upload := DocumentUpload{FileName: "revised.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}
	_, err := svc.ReplaceCurriculum(context.Background(), "hei-2", "pr-1", upload)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotOwner.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.stored)
}

func TestProgramRequestServiceReviewRegionGate(t *testing.T) {
	repo := &mockProgramRequestRepo{requests: map[string]models.ProgramRequest{
		"pr-1": {ID: "pr-1", InstitutionID: "hei-1", Status: models.StatusForApproval},
	}}
	institutions := &mockInstitutionResolver{institutions: map[string]models.Institution{
		"hei-1": {ID: "hei-1", Region: "Region X"},
	}}
	svc := NewProgramRequestService(repo, &mockCatalog{}, institutions, &mockObjectStore{}, nil, nil, 0)

	_, err := svc.Review(context.Background(), models.AdminContext{Region: "Region 11"}, "pr-1", "Declined")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRegionMismatch.Code, appErrors.FromError(err).Code)

	request, err := svc.Review(context.Background(), models.AdminContext{Region: "Region 10"}, "pr-1", "Declined")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, request.Status)
}

func TestProgramRequestServiceDeleteAnyState(t *testing.T) {
	repo := &mockProgramRequestRepo{requests: map[string]models.ProgramRequest{
		"pr-1": {ID: "pr-1", InstitutionID: "hei-1", Status: models.StatusApproved},
	}}
	svc := NewProgramRequestService(repo, &mockCatalog{}, &mockInstitutionResolver{}, &mockObjectStore{}, nil, nil, 0)

	require.NoError(t, svc.Delete(context.Background(), "hei-1", "pr-1"))
	assert.Equal(t, []string{"pr-1"}, repo.deleted)
}
