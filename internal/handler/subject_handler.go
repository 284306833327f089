package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/service"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/response"
)

// SubjectHandler exposes the subject review workflow.
type SubjectHandler struct {
	subjects *service.SubjectService
	metrics  *service.MetricsService
}

// NewSubjectHandler constructs SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService, metrics *service.MetricsService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects, metrics: metrics}
}

// Create godoc
// @Summary Submit a subject for review
// @Description Multipart form: syllabus PDF plus the subject fields.
// @Tags Subjects
// @Accept multipart/form-data
// @Produce json
// @Param syllabus formData file true "Syllabus PDF"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	req := service.CreateSubjectRequest{
		Campus: c.PostForm("campus"),
		Kind:   c.PostForm("kind"),
		Code:   c.PostForm("code"),
		Title:  c.PostForm("title"),
	}
	if raw := c.PostForm("units"); raw != "" {
		units, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "units must be numeric"))
			return
		}
		req.Units = &units
	}
	req.GovernmentAuthority = c.PostForm("government_authority")
	req.AcademicYearStarted = c.PostForm("ay_started")
	for field, dst := range map[string]**int{
		"enrollment_y1": &req.EnrollmentYear1,
		"enrollment_y2": &req.EnrollmentYear2,
		"enrollment_y3": &req.EnrollmentYear3,
	} {
		if raw := c.PostForm(field); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				response.Error(c, appErrors.Clone(appErrors.ErrValidation, field+" must be an integer"))
				return
			}
			*dst = &n
		}
	}

	upload, err := readUpload(c, "syllabus")
	if err != nil {
		response.Error(c, err)
		return
	}

	subject, err := h.subjects.Create(c.Request.Context(), institutionFromContext(c), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// List godoc
// @Summary List subjects
// @Description HEI accounts see their own entries; reviewers see entries from institutions in their region.
// @Tags Subjects
// @Produce json
// @Param campus query string false "Filter by campus"
// @Param status query string false "Filter by review status"
// @Param kind query string false "Filter by kind"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	filter := models.SubjectFilter{
		Campus: c.Query("campus"),
		Status: c.Query("status"),
		Kind:   c.Query("kind"),
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var (
		subjects []models.Subject
		err      error
	)
	if claims.Role == models.RoleAdmin {
		subjects, err = h.subjects.ListForReviewer(c.Request.Context(), adminFromContext(c), filter)
	} else {
		subjects, err = h.subjects.ListForInstitution(c.Request.Context(), claims.InstitutionID, filter)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Get godoc
// @Summary Get one subject
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.subjects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

type decisionRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Record a review decision
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body decisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/status [post]
func (h *SubjectHandler) UpdateStatus(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.subjects.Review(c.Request.Context(), adminFromContext(c), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountReviewDecision("subject", req.Status)
	response.JSON(c, http.StatusOK, subject, nil)
}

// Update godoc
// @Summary Edit a pending subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.UpdateSubjectRequest true "Subject fields"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [patch]
func (h *SubjectHandler) Update(c *gin.Context) {
	var req service.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.subjects.Update(c.Request.Context(), institutionFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete godoc
// @Summary Delete an owned subject
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Success 204
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), institutionFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// readUpload pulls a multipart file into a DocumentUpload.
func readUpload(c *gin.Context, field string) (service.DocumentUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return service.DocumentUpload{}, appErrors.Clone(appErrors.ErrValidation, field+" file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return service.DocumentUpload{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read "+field)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return service.DocumentUpload{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read "+field)
	}
	return service.DocumentUpload{
		FileName: fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
