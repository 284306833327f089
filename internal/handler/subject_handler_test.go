package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hei-portal-api/internal/middleware"
	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/service"
	"github.com/noah-isme/hei-portal-api/pkg/storage"
)

type fakeSubjectRepo struct {
	subjects map[string]models.Subject
	statuses map[string]models.ApprovalStatus
}

func (f *fakeSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	out := make([]models.Subject, 0, len(f.subjects))
	for _, s := range f.subjects {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := f.subjects[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	if f.subjects == nil {
		f.subjects = make(map[string]models.Subject)
	}
	if subject.ID == "" {
		subject.ID = "s-new"
	}
	f.subjects[subject.ID] = *subject
	return nil
}

func (f *fakeSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	f.subjects[subject.ID] = *subject
	return nil
}

func (f *fakeSubjectRepo) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	if f.statuses == nil {
		f.statuses = make(map[string]models.ApprovalStatus)
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeSubjectRepo) Delete(ctx context.Context, id string) error {
	delete(f.subjects, id)
	return nil
}

type fakeInstitutions struct {
	institutions map[string]models.Institution
}

func (f *fakeInstitutions) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	if inst, ok := f.institutions[id]; ok {
		return &inst, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeInstitutions) IDsByRegion(ctx context.Context, region string) ([]string, error) {
	var ids []string
	for _, inst := range f.institutions {
		if inst.Region == region {
			ids = append(ids, inst.ID)
		}
	}
	return ids, nil
}

type fakeStore struct {
	stored int
	fail   error
}

func (f *fakeStore) Store(ctx context.Context, name, mimeType string, data []byte) (*storage.StoredObject, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.stored++
	return &storage.StoredObject{ID: "obj-1", ViewLink: "https://docs.example/obj-1"}, nil
}

func (f *fakeStore) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func (f *fakeStore) OpenRead(ctx context.Context, id string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte("xlsx"))), nil
}

func newSubjectHandler(repo *fakeSubjectRepo, institutions *fakeInstitutions, store *fakeStore) *SubjectHandler {
	svc := service.NewSubjectService(repo, institutions, store, nil, nil, 0)
	return NewSubjectHandler(svc, nil)
}

func testContext(t *testing.T, req *http.Request, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func TestSubjectHandlerUpdateStatusInvalidJSON(t *testing.T) {
	h := newSubjectHandler(&fakeSubjectRepo{}, &fakeInstitutions{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/subjects/s1/status", bytes.NewBufferString("{"))
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleAdmin, Region: "ALL"})
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.UpdateStatus(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubjectHandlerUpdateStatusApproves(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: map[string]models.Subject{
		"s1": {ID: "s1", InstitutionID: "hei-1", Status: models.StatusForApproval},
	}}
	institutions := &fakeInstitutions{institutions: map[string]models.Institution{
		"hei-1": {ID: "hei-1", Region: "Region I"},
	}}
	h := newSubjectHandler(repo, institutions, &fakeStore{})

	body, _ := json.Marshal(map[string]string{"status": "Approved"})
	req := httptest.NewRequest(http.MethodPost, "/subjects/s1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleAdmin, Region: "Region 1"})
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.UpdateStatus(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusApproved, repo.statuses["s1"])
}

func TestSubjectHandlerUpdateStatusOutsideRegion(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: map[string]models.Subject{
		"s1": {ID: "s1", InstitutionID: "hei-1", Status: models.StatusForApproval},
	}}
	institutions := &fakeInstitutions{institutions: map[string]models.Institution{
		"hei-1": {ID: "hei-1", Region: "Region I"},
	}}
	h := newSubjectHandler(repo, institutions, &fakeStore{})

	body, _ := json.Marshal(map[string]string{"status": "Declined"})
	req := httptest.NewRequest(http.MethodPost, "/subjects/s1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleAdmin, Region: "Region 9"})
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.UpdateStatus(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, repo.statuses)
}

func TestSubjectHandlerCreateMultipart(t *testing.T) {
	repo := &fakeSubjectRepo{}
	store := &fakeStore{}
	h := newSubjectHandler(repo, &fakeInstitutions{}, store)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("campus", "Main")
	_ = writer.WriteField("kind", "Elective")
	_ = writer.WriteField("code", "EL-1")
	_ = writer.WriteField("title", "Philippine Folk Dance")
	_ = writer.WriteField("units", "2")
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="syllabus"; filename="syllabus.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/subjects", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})

	h.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, store.stored)
	require.Len(t, repo.subjects, 1)
	for _, s := range repo.subjects {
		assert.Equal(t, models.StatusForApproval, s.Status)
		assert.Equal(t, "hei-1", s.InstitutionID)
	}
}

func TestSubjectHandlerListScopesHEIToOwnInstitution(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: map[string]models.Subject{
		"s1": {ID: "s1", InstitutionID: "hei-1"},
	}}
	h := newSubjectHandler(repo, &fakeInstitutions{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/subjects", nil)
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})

	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}
