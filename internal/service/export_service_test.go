package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulaplan/aula-sync-api/internal/schema"
	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
	"github.com/aulaplan/aula-sync-api/pkg/export"
)

type exportStoreMock struct {
	rows      []map[string]interface{}
	err       error
	lastTable string
	lastOwner *int64
}

func (m *exportStoreMock) List(ctx context.Context, table *schema.Table, ownerID *int64) ([]map[string]interface{}, error) {
	m.lastTable = table.Name
	m.lastOwner = ownerID
	return m.rows, m.err
}

func newExportService(store *exportStoreMock) *ExportService {
	return NewExportService(store, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())
}

func TestRenderCSVScopesToProfessor(t *testing.T) {
	store := &exportStoreMock{rows: []map[string]interface{}{
		{"id": int64(1), "estudiante_id": int64(3), "examen": "85", "periodo": "P1"},
	}}
	svc := newExportService(store)

	doc, err := svc.Render(context.Background(), "calificacion_estandar", 7, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.Equal(t, "calificacion_estandar.csv", doc.Filename)

	content := string(doc.Content)
	assert.True(t, strings.HasPrefix(content, "\ufeffid,"), "BOM then the header row")
	assert.Contains(t, content, "85")
	assert.Equal(t, "calificacion_estandar", store.lastTable)
	require.NotNil(t, store.lastOwner)
	assert.Equal(t, int64(7), *store.lastOwner)
}

func TestRenderDefaultsToCSV(t *testing.T) {
	svc := newExportService(&exportStoreMock{})

	doc, err := svc.Render(context.Background(), "asistencia", 7, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
}

func TestRenderPDF(t *testing.T) {
	store := &exportStoreMock{rows: []map[string]interface{}{
		{"id": int64(1), "estado": "presente"},
	}}
	svc := newExportService(store)

	doc, err := svc.Render(context.Background(), "asistencia", 7, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "asistencia.pdf", doc.Filename)
	assert.True(t, strings.HasPrefix(string(doc.Content), "%PDF"))
}

func TestRenderSkipsNullValues(t *testing.T) {
	store := &exportStoreMock{rows: []map[string]interface{}{
		{"id": int64(1), "comentario": nil, "estado": "presente"},
	}}
	svc := newExportService(store)

	doc, err := svc.Render(context.Background(), "asistencia", 7, "csv")
	require.NoError(t, err)
	assert.NotContains(t, string(doc.Content), "<nil>")
}

func TestRenderRejectsNonExportableTable(t *testing.T) {
	svc := newExportService(&exportStoreMock{})

	_, err := svc.Render(context.Background(), "usuarios", 7, "csv")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnknownTable.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(&exportStoreMock{})

	_, err := svc.Render(context.Background(), "asistencia", 7, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRenderSurfacesStorageError(t *testing.T) {
	svc := newExportService(&exportStoreMock{err: errors.New("connection refused")})

	_, err := svc.Render(context.Background(), "asistencia", 7, "csv")
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}
