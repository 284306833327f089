package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/service"
	"github.com/noah-isme/hei-portal-api/pkg/response"
)

// ExportHandler exposes listing downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Submissions godoc
// @Summary Export submission history
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /exports/submissions [get]
func (h *ExportHandler) Submissions(c *gin.Context) {
	file, err := h.exports.Submissions(c.Request.Context(), institutionFromContext(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}

// Subjects godoc
// @Summary Export subject entries
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /exports/subjects [get]
func (h *ExportHandler) Subjects(c *gin.Context) {
	file, err := h.exports.Subjects(c.Request.Context(), institutionFromContext(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}

func writeExport(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
