package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/service"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/response"
)

// RegistrationHandler exposes HEI sign-up and onboarding endpoints.
type RegistrationHandler struct {
	registrations *service.RegistrationService
	metrics       *service.MetricsService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations *service.RegistrationService, metrics *service.MetricsService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, metrics: metrics}
}

// Create godoc
// @Summary Submit a sign-up request
// @Description Public endpoint; the request waits for a regional reviewer.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.CreateRegistrationRequest true "Sign-up"
// @Success 201 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req service.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	registration, err := h.registrations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registration)
}

// List godoc
// @Summary List sign-up requests in the reviewer's region
// @Tags Registrations
// @Produce json
// @Param status query string false "Filter by review status"
// @Success 200 {object} response.Envelope
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	registrations, err := h.registrations.ListForReviewer(c.Request.Context(), adminFromContext(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registrations, nil)
}

// Approve godoc
// @Summary Approve a sign-up and provision the institution
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/approve [post]
func (h *RegistrationHandler) Approve(c *gin.Context) {
	result, err := h.registrations.Approve(c.Request.Context(), adminFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountReviewDecision("registration", "Approved")
	response.JSON(c, http.StatusOK, result, nil)
}

// Decline godoc
// @Summary Decline a sign-up
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/decline [post]
func (h *RegistrationHandler) Decline(c *gin.Context) {
	registration, err := h.registrations.Decline(c.Request.Context(), adminFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountReviewDecision("registration", "Declined")
	response.JSON(c, http.StatusOK, registration, nil)
}

// Delete godoc
// @Summary Remove a sign-up row
// @Tags Registrations
// @Param id path string true "Registration ID"
// @Success 204
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
	if err := h.registrations.Delete(c.Request.Context(), adminFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
