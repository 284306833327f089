package handler

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/report"
	"github.com/noah-isme/hei-portal-api/internal/service"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/response"
)

// SubmissionHandler exposes the form submission pipeline.
type SubmissionHandler struct {
	submissions *service.SubmissionService
	metrics     *service.MetricsService
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(submissions *service.SubmissionService, metrics *service.MetricsService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, metrics: metrics}
}

type submitRequest struct {
	FormType string         `json:"form_type"`
	Campus   string         `json:"campus"`
	Payload  report.Payload `json:"payload"`
	// Document carries a pre-rendered spreadsheet, base64 encoded.
	// When present the payload is ignored.
	Document string `json:"document,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// Submit godoc
// @Summary Submit a form
// @Description Renders the structured payload into the form template and stores the document. A pre-rendered spreadsheet may be sent instead via the document field.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body submitRequest true "Form payload"
// @Success 201 {object} response.Envelope
// @Router /submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	institutionID := institutionFromContext(c)

	var (
		result *service.SubmissionResult
		err    error
	)
	if req.Document != "" {
		data, decodeErr := base64.StdEncoding.DecodeString(req.Document)
		if decodeErr != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "document must be base64 encoded"))
			return
		}
		result, err = h.submissions.SubmitPrerendered(c.Request.Context(), institutionID, req.Campus, req.FormType, service.DocumentUpload{
			FileName: req.FileName,
			MIMEType: report.SpreadsheetMIME,
			Data:     data,
		})
	} else {
		result, err = h.submissions.Submit(c.Request.Context(), institutionID, service.SubmitFormRequest{
			FormType: req.FormType,
			Campus:   req.Campus,
			Payload:  req.Payload,
		})
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountSubmission(req.FormType)
	response.Created(c, result)
}

// List godoc
// @Summary List submissions
// @Tags Submissions
// @Produce json
// @Param campus query string false "Filter by campus"
// @Param form_type query string false "Filter by form"
// @Success 200 {object} response.Envelope
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	filter := models.SubmissionFilter{
		Campus:   c.Query("campus"),
		FormType: c.Query("form_type"),
	}
	submissions, err := h.submissions.List(c.Request.Context(), institutionFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, nil)
}

// ExportPDF godoc
// @Summary Export a submission as PDF
// @Tags Submissions
// @Produce application/pdf
// @Param id path string true "Submission ID"
// @Success 200 {file} binary
// @Router /submissions/{id}/pdf [get]
func (h *SubmissionHandler) ExportPDF(c *gin.Context) {
	data, name, err := h.submissions.ExportPDF(c.Request.Context(), institutionFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Download godoc
// @Summary Download the stored spreadsheet
// @Tags Submissions
// @Produce application/octet-stream
// @Param id path string true "Submission ID"
// @Success 200 {file} binary
// @Router /submissions/{id}/download [get]
func (h *SubmissionHandler) Download(c *gin.Context) {
	reader, submission, err := h.submissions.Download(c.Request.Context(), institutionFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()
	c.Header("Content-Disposition", `attachment; filename="`+submission.FileName+`"`)
	c.Status(http.StatusOK)
	c.Header("Content-Type", report.SpreadsheetMIME)
	_, _ = io.Copy(c.Writer, reader)
}

// Delete godoc
// @Summary Delete a submission record
// @Tags Submissions
// @Param id path string true "Submission ID"
// @Success 204
// @Router /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	if err := h.submissions.Delete(c.Request.Context(), institutionFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
