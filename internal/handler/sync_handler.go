package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
	"github.com/aulaplan/aula-sync-api/pkg/response"
)

type syncService interface {
	Upload(ctx context.Context, tabla string, rows []map[string]interface{}) error
	Download(ctx context.Context, tabla string, ownerID *int64) ([]map[string]interface{}, bool, error)
	Remove(ctx context.Context, tabla string, id int64) error
}

// SyncHandler wires the generic table sync endpoints.
type SyncHandler struct {
	service syncService
}

// NewSyncHandler creates a new handler.
func NewSyncHandler(svc syncService) *SyncHandler {
	return &SyncHandler{service: svc}
}

// Upload godoc
// @Summary Upload a batch of rows for a table
// @Description Apply device rows to the named table with upsert semantics
// @Tags Sync
// @Accept json
// @Produce json
// @Param tabla path string true "Table name"
// @Param payload body []map[string]interface{} true "Rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /sync/{tabla} [post]
func (h *SyncHandler) Upload(c *gin.Context) {
	tabla := c.Param("tabla")

	var rows []map[string]interface{}
	if err := c.ShouldBindJSON(&rows); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
		return
	}

	if err := h.service.Upload(c.Request.Context(), tabla, rows); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Sincronización completada para %s.", tabla),
	})
}

// Download godoc
// @Summary Download a table
// @Description Return all rows of the table, optionally scoped to a professor
// @Tags Sync
// @Produce json
// @Param tabla path string true "Table name"
// @Param userId path int false "Professor id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sync/{tabla}/{userId} [get]
func (h *SyncHandler) Download(c *gin.Context) {
	tabla := c.Param("tabla")

	var ownerID *int64
	if raw := c.Param("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "El identificador de usuario no es válido."))
			return
		}
		ownerID = &id
	}

	rows, cached, err := h.service.Download(c.Request.Context(), tabla, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}

	response.JSON(c, http.StatusOK, rows, map[string]interface{}{
		"count":  len(rows),
		"cached": cached,
	})
}

// Delete godoc
// @Summary Delete one row
// @Description Remove a row by id; deleting an absent row succeeds
// @Tags Sync
// @Produce json
// @Param tabla path string true "Table name"
// @Param id path int true "Row id"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sync/{tabla}/{id} [delete]
func (h *SyncHandler) Delete(c *gin.Context) {
	tabla := c.Param("tabla")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "El identificador no es válido."))
		return
	}

	if err := h.service.Remove(c.Request.Context(), tabla, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
