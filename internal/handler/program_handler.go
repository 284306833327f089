package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/service"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/response"
)

// ProgramHandler exposes the master catalog and the request workflow.
type ProgramHandler struct {
	catalog  *service.MasterProgramService
	requests *service.ProgramRequestService
	metrics  *service.MetricsService
}

// NewProgramHandler constructs ProgramHandler.
func NewProgramHandler(catalog *service.MasterProgramService, requests *service.ProgramRequestService, metrics *service.MetricsService) *ProgramHandler {
	return &ProgramHandler{catalog: catalog, requests: requests, metrics: metrics}
}

// ListCatalog godoc
// @Summary List the degree-program catalog
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs/master [get]
func (h *ProgramHandler) ListCatalog(c *gin.Context) {
	programs, err := h.catalog.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

// CreateCatalog godoc
// @Summary Add a catalog program
// @Tags Programs
// @Accept json
// @Produce json
// @Param payload body service.MasterProgramRequest true "Program"
// @Success 201 {object} response.Envelope
// @Router /programs/master [post]
func (h *ProgramHandler) CreateCatalog(c *gin.Context) {
	var req service.MasterProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	program, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}

// UpdateCatalog godoc
// @Summary Edit a catalog program
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param payload body service.MasterProgramRequest true "Program"
// @Success 200 {object} response.Envelope
// @Router /programs/master/{id} [put]
func (h *ProgramHandler) UpdateCatalog(c *gin.Context) {
	var req service.MasterProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	program, err := h.catalog.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// DeleteCatalog godoc
// @Summary Remove a catalog program
// @Tags Programs
// @Param id path string true "Program ID"
// @Success 204
// @Router /programs/master/{id} [delete]
func (h *ProgramHandler) DeleteCatalog(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateRequest godoc
// @Summary Open a program adoption request
// @Description Multipart form: master_program_id plus an optional curriculum PDF.
// @Tags Programs
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /programs/requests [post]
func (h *ProgramHandler) CreateRequest(c *gin.Context) {
	req := service.CreateProgramRequestRequest{
		MasterProgramID: c.PostForm("master_program_id"),
	}
	var curriculum *service.DocumentUpload
	if _, err := c.FormFile("curriculum"); err == nil {
		upload, err := readUpload(c, "curriculum")
		if err != nil {
			response.Error(c, err)
			return
		}
		curriculum = &upload
	}
	request, err := h.requests.Create(c.Request.Context(), institutionFromContext(c), req, curriculum)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// ListRequests godoc
// @Summary List program requests
// @Tags Programs
// @Produce json
// @Param status query string false "Filter by review status"
// @Success 200 {object} response.Envelope
// @Router /programs/requests [get]
func (h *ProgramHandler) ListRequests(c *gin.Context) {
	filter := models.ProgramRequestFilter{Status: c.Query("status")}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var (
		requests []models.ProgramRequest
		err      error
	)
	if claims.Role == models.RoleAdmin {
		requests, err = h.requests.ListForReviewer(c.Request.Context(), adminFromContext(c), filter)
	} else {
		requests, err = h.requests.ListForInstitution(c.Request.Context(), claims.InstitutionID, filter)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// ReplaceCurriculum godoc
// @Summary Replace the curriculum document
// @Description The request returns to review regardless of its previous state.
// @Tags Programs
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /programs/requests/{id} [put]
func (h *ProgramHandler) ReplaceCurriculum(c *gin.Context) {
	upload, err := readUpload(c, "curriculum")
	if err != nil {
		response.Error(c, err)
		return
	}
	request, err := h.requests.ReplaceCurriculum(c.Request.Context(), institutionFromContext(c), c.Param("id"), upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// UpdateRequestStatus godoc
// @Summary Record a review decision on a request
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body decisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /programs/requests/{id}/status [post]
func (h *ProgramHandler) UpdateRequestStatus(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	request, err := h.requests.Review(c.Request.Context(), adminFromContext(c), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountReviewDecision("program_request", req.Status)
	response.JSON(c, http.StatusOK, request, nil)
}

// DeleteRequest godoc
// @Summary Withdraw a program request
// @Tags Programs
// @Param id path string true "Request ID"
// @Success 204
// @Router /programs/requests/{id} [delete]
func (h *ProgramHandler) DeleteRequest(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), institutionFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
