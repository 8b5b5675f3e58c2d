package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aulaplan/aula-sync-api/internal/service"
	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
	"github.com/aulaplan/aula-sync-api/pkg/response"
)

type exportService interface {
	Render(ctx context.Context, tabla string, profesorID int64, format string) (*service.ExportDocument, error)
}

// ExportHandler streams grade and attendance sheets.
type ExportHandler struct {
	service exportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export a professor's table
// @Description Render the scoped table as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param tabla path string true "Table name"
// @Param profesorId path int true "Professor id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export/{tabla}/{profesorId} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	tabla := c.Param("tabla")

	profesorID, err := strconv.ParseInt(c.Param("profesorId"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "El identificador de profesor no es válido."))
		return
	}

	doc, err := h.service.Render(c.Request.Context(), tabla, profesorID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(200, doc.ContentType, doc.Content)
}
