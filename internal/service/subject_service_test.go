package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hei-portal-api/internal/models"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/storage"
)

type mockObjectStore struct {
	stored   []storage.StoredObject
	failure  error
	pdfBytes []byte
	content  []byte
}

func (m *mockObjectStore) Store(ctx context.Context, name, mimeType string, data []byte) (*storage.StoredObject, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	object := storage.StoredObject{
		ID:           "obj-" + name,
		ViewLink:     "https://docs.example/view/" + name,
		DownloadLink: "https://docs.example/download/" + name,
	}
	m.stored = append(m.stored, object)
	return &object, nil
}

func (m *mockObjectStore) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	return m.pdfBytes, nil
}

func (m *mockObjectStore) OpenRead(ctx context.Context, id string) (io.ReadCloser, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	return io.NopCloser(bytes.NewReader(m.content)), nil
}

type mockInstitutionResolver struct {
	institutions map[string]models.Institution
	idsByRegion  map[string][]string
}

func (m *mockInstitutionResolver) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	if inst, ok := m.institutions[id]; ok {
		return &inst, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInstitutionResolver) IDsByRegion(ctx context.Context, region string) ([]string, error) {
	return m.idsByRegion[region], nil
}

type mockSubjectRepo struct {
	subjects   map[string]models.Subject
	lastFilter models.SubjectFilter
	statuses   map[string]models.ApprovalStatus
	deleted    []string
	err        error
}

func (m *mockSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	if m.err != nil {
		return m.err
	}
	if m.subjects == nil {
		m.subjects = make(map[string]models.Subject)
	}
	if subject.ID == "" {
		subject.ID = "generated"
	}
	m.subjects[subject.ID] = *subject
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	m.subjects[subject.ID] = *subject
	return nil
}

func (m *mockSubjectRepo) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.ApprovalStatus)
	}
	m.statuses[id] = status
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func pdfUpload() DocumentUpload {
	return DocumentUpload{FileName: "syllabus.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}
}

func floatPtr(v float64) *float64 { return &v }

func TestSubjectServiceCreateUploadsBeforeRecording(t *testing.T) {
	repo := &mockSubjectRepo{}
	store := &mockObjectStore{}
	svc := NewSubjectService(repo, &mockInstitutionResolver{}, store, nil, nil, 0)

	subject, err := svc.Create(context.Background(), "hei-1", CreateSubjectRequest{
		Campus: "Main",
		Kind:   "Elective",
		Code:   "EL-1",
		Title:  "Philippine Folk Dance",
		Units:  floatPtr(2),
	}, pdfUpload())
	require.NoError(t, err)
	assert.Equal(t, models.StatusForApproval, subject.Status)
	assert.Equal(t, "obj-syllabus.pdf", subject.SyllabusObjectID)
	require.Len(t, store.stored, 1)
}

func TestSubjectServiceCreateRejectsNonPDF(t *testing.T) {
	repo := &mockSubjectRepo{}
	store := &mockObjectStore{}
	svc := NewSubjectService(repo, &mockInstitutionResolver{}, store, nil, nil, 0)

	_, err := svc.Create(context.Background(), "hei-1", CreateSubjectRequest{
		Campus: "Main",
		Kind:   "Elective",
		Code:   "EL-1",
		Title:  "Philippine Folk Dance",
		Units:  floatPtr(2),
	}, DocumentUpload{FileName: "syllabus.docx", MIMEType: "application/msword", Data: []byte("doc")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.stored, "rejected files must never reach the store")
	assert.Empty(t, repo.subjects)
}

func TestSubjectServiceCreateAbortsWhenUploadFails(t *testing.T) {
	repo := &mockSubjectRepo{}
	store := &mockObjectStore{failure: errors.New("boom")}
	svc := NewSubjectService(repo, &mockInstitutionResolver{}, store, nil, nil, 0)

	_, err := svc.Create(context.Background(), "hei-1", CreateSubjectRequest{
		Campus: "Main",
		Kind:   "Integrated",
		Code:   "GE-1",
		Title:  "Ethics",
		Units:  floatPtr(3),
	}, pdfUpload())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.subjects, "no row may exist without a stored syllabus")
}

func TestSubjectServiceReviewRegionGate(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[string]models.Subject{
		"s1": {ID: "s1", InstitutionID: "hei-1", Status: models.StatusForApproval},
	}}
	institutions := &mockInstitutionResolver{institutions: map[string]models.Institution{
		"hei-1": {ID: "hei-1", Region: "Region IV-A"},
	}}
	svc := NewSubjectService(repo, institutions, &mockObjectStore{}, nil, nil, 0)

	// Reviewer from another region is refused.
	_, err := svc.Review(context.Background(), models.AdminContext{Region: "Region 2"}, "s1", "Approved")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRegionMismatch.Code, appErrors.FromError(err).Code)

	// The short code Region 4A matches the canonical Region IV-A.
	subject, err := svc.Review(context.Background(), models.AdminContext{Region: "Region 4A"}, "s1", "Approved")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, subject.Status)
	assert.Equal(t, models.StatusApproved, repo.statuses["s1"])
}

func TestSubjectServiceReviewRejectsForApprovalDecision(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[string]models.Subject{
		"s1": {ID: "s1", InstitutionID: "hei-1", Status: models.StatusForApproval},
	}}
	svc := NewSubjectService(repo, &mockInstitutionResolver{}, &mockObjectStore{}, nil, nil, 0)

	_, err := svc.Review(context.Background(), models.AdminContext{Unrestricted: true}, "s1", "For Approval")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceListForReviewerScopesByRegion(t *testing.T) {
	repo := &mockSubjectRepo{}
	institutions := &mockInstitutionResolver{idsByRegion: map[string][]string{
		"Region I": {"hei-1", "hei-2"},
	}}
	svc := NewSubjectService(repo, institutions, &mockObjectStore{}, nil, nil, 0)

	_, err := svc.ListForReviewer(context.Background(), models.AdminContext{Region: "Region 1"}, models.SubjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"hei-1", "hei-2"}, repo.lastFilter.InstitutionIDs)
	assert.Empty(t, repo.lastFilter.InstitutionID)
}

func TestSubjectServiceListForReviewerEmptyRegion(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[string]models.Subject{"s1": {ID: "s1"}}}
	svc := NewSubjectService(repo, &mockInstitutionResolver{}, &mockObjectStore{}, nil, nil, 0)

	subjects, err := svc.ListForReviewer(context.Background(), models.AdminContext{Region: "Region 9"}, models.SubjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, subjects, "a region with no institutions sees nothing")
}

func TestSubjectServiceDeleteRequiresOwnership(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[string]models.Subject{
		"s1": {ID: "s1", InstitutionID: "hei-1"},
	}}
	svc := NewSubjectService(repo, &mockInstitutionResolver{}, &mockObjectStore{}, nil, nil, 0)

	err := svc.Delete(context.Background(), "hei-2", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotOwner.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), "hei-1", "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)
}

func TestSubjectServiceUpdateFrozenAfterDecision(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[string]models.Subject{
		"s1": {ID: "s1", InstitutionID: "hei-1", Kind: models.SubjectElective, Status: models.StatusApproved},
	}}
	svc := NewSubjectService(repo, &mockInstitutionResolver{}, &mockObjectStore{}, nil, nil, 0)

	_, err := svc.Update(context.Background(), "hei-1", "s1", UpdateSubjectRequest{Code: "EL-9", Title: "New"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
