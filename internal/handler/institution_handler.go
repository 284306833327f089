package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/service"
	"github.com/noah-isme/hei-portal-api/pkg/response"
)

// InstitutionHandler exposes the institution directory.
type InstitutionHandler struct {
	directory *service.DirectoryService
}

// NewInstitutionHandler constructs InstitutionHandler.
func NewInstitutionHandler(directory *service.DirectoryService) *InstitutionHandler {
	return &InstitutionHandler{directory: directory}
}

// List godoc
// @Summary List institutions
// @Tags Institutions
// @Produce json
// @Param region query string false "Filter by region"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Envelope
// @Router /institutions [get]
func (h *InstitutionHandler) List(c *gin.Context) {
	institutions, err := h.directory.List(c.Request.Context(), models.InstitutionFilter{
		Region: c.Query("region"),
		Name:   c.Query("name"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institutions, nil)
}

// Get godoc
// @Summary Get one institution
// @Tags Institutions
// @Produce json
// @Param id path string true "Institution ID"
// @Success 200 {object} response.Envelope
// @Router /institutions/{id} [get]
func (h *InstitutionHandler) Get(c *gin.Context) {
	institution, err := h.directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institution, nil)
}

// Directory godoc
// @Summary Aggregated campus directory
// @Tags Institutions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /institutions/directory [get]
func (h *InstitutionHandler) Directory(c *gin.Context) {
	directory, err := h.directory.Directory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, directory, nil)
}

// Campuses godoc
// @Summary Campuses registered under the institution's name
// @Description Sibling campuses register separately; this lists every campus sharing the institution's name.
// @Tags Institutions
// @Produce json
// @Param id path string true "Institution ID"
// @Success 200 {object} response.Envelope
// @Router /institutions/{id}/campuses [get]
func (h *InstitutionHandler) Campuses(c *gin.Context) {
	institution, err := h.directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	campuses, err := h.directory.Campuses(c.Request.Context(), institution.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campuses, nil)
}
