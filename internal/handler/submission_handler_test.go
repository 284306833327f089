package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/report"
	"github.com/noah-isme/hei-portal-api/internal/service"
)

type fakeSubmissionRepo struct {
	rows []models.Submission
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	var out []models.Submission
	for _, row := range f.rows {
		if filter.InstitutionID != "" && row.InstitutionID != filter.InstitutionID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeSubmissionRepo) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return &row, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = "sub-1"
	f.rows = append(f.rows, *submission)
	return nil
}

func (f *fakeSubmissionRepo) Delete(ctx context.Context, id string) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeRenderer struct {
	document *report.Document
	err      error
}

func (f *fakeRenderer) Render(formType models.FormType, payload report.Payload, header report.Header) (*report.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.document, nil
}

type submissionEnvelope struct {
	Data struct {
		Submission *models.Submission `json:"submission"`
		Recorded   bool               `json:"recorded"`
	} `json:"data"`
}

func newSubmissionHandler(repo *fakeSubmissionRepo, renderer *fakeRenderer, store *fakeStore) *SubmissionHandler {
	svc := service.NewSubmissionService(repo, renderer, store, &fakeInstitutions{}, nil)
	return NewSubmissionHandler(svc, nil)
}

func TestSubmissionHandlerSubmitRendersAndRecords(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	renderer := &fakeRenderer{document: &report.Document{
		FileName: "Form 1 - 2026.xlsx",
		MIMEType: report.SpreadsheetMIME,
		Bytes:    []byte("xlsx"),
	}}
	store := &fakeStore{}
	h := newSubmissionHandler(repo, renderer, store)

	body, _ := json.Marshal(map[string]any{
		"form_type": "form1",
		"campus":    "Main",
		"payload":   map[string]any{"rows": []any{}},
	})
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})

	h.Submit(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, store.stored)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "hei-1", repo.rows[0].InstitutionID)

	var envelope submissionEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Recorded)
	assert.Equal(t, "sub-1", envelope.Data.Submission.ID)
}

func TestSubmissionHandlerSubmitPrerendered(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	store := &fakeStore{}
	h := newSubmissionHandler(repo, &fakeRenderer{}, store)

	body, _ := json.Marshal(map[string]any{
		"form_type": "form2",
		"campus":    "Main",
		"document":  base64.StdEncoding.EncodeToString([]byte("xlsx-bytes")),
		"file_name": "Form 2 - 2026.xlsx",
	})
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})

	h.Submit(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "Form 2 - 2026.xlsx", repo.rows[0].FileName)
}

func TestSubmissionHandlerSubmitRejectsUnknownForm(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	store := &fakeStore{}
	h := newSubmissionHandler(repo, &fakeRenderer{}, store)

	body, _ := json.Marshal(map[string]any{"form_type": "form9", "campus": "Main"})
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})

	h.Submit(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, store.stored)
	assert.Empty(t, repo.rows)
}

func TestSubmissionHandlerSubmitBadBase64(t *testing.T) {
	h := newSubmissionHandler(&fakeSubmissionRepo{}, &fakeRenderer{}, &fakeStore{})

	body, _ := json.Marshal(map[string]any{"form_type": "form1", "document": "not base64!!"})
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})

	h.Submit(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmissionHandlerDeleteOtherInstitution(t *testing.T) {
	repo := &fakeSubmissionRepo{rows: []models.Submission{
		{ID: "sub-1", InstitutionID: "hei-2"},
	}}
	h := newSubmissionHandler(repo, &fakeRenderer{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodDelete, "/submissions/sub-1", nil)
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}

	h.Delete(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, repo.rows, 1)
}

func TestSubmissionHandlerDownload(t *testing.T) {
	repo := &fakeSubmissionRepo{rows: []models.Submission{
		{ID: "sub-1", InstitutionID: "hei-1", ObjectID: "obj-1", FileName: "Form 1.xlsx"},
	}}
	h := newSubmissionHandler(repo, &fakeRenderer{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/submissions/sub-1/download", nil)
	c, rec := testContext(t, req, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}

	h.Download(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Form 1.xlsx")
	assert.Equal(t, "xlsx", rec.Body.String())
}
