package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aulaplan/aula-sync-api/internal/schema"
	appErrors "github.com/aulaplan/aula-sync-api/pkg/errors"
	"github.com/aulaplan/aula-sync-api/pkg/export"
)

type exportStore interface {
	List(ctx context.Context, table *schema.Table, ownerID *int64) ([]map[string]interface{}, error)
}

// exportableTables limits exports to the report-shaped tables.
var exportableTables = map[string]bool{
	"calificacion_estandar":     true,
	"calificacion_competencias": true,
	"asistencia":                true,
}

// ExportDocument is a rendered export ready to stream.
type ExportDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a professor's grade and attendance sheets.
type ExportService struct {
	store  exportStore
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(store exportStore, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{store: store, csv: csv, pdf: pdf, logger: logger}
}

// Render produces the scoped table content in the requested format.
func (s *ExportService) Render(ctx context.Context, tabla string, profesorID int64, format string) (*ExportDocument, error) {
	if !exportableTables[tabla] {
		return nil, appErrors.Clone(appErrors.ErrUnknownTable, "La tabla no admite exportación.")
	}
	table, ok := schema.Lookup(tabla)
	if !ok {
		return nil, appErrors.ErrUnknownTable
	}

	rows, err := s.store.List(ctx, table, &profesorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}

	dataset := export.Dataset{Headers: table.ColumnNames()}
	for _, row := range rows {
		record := make(map[string]string, len(row))
		for key, value := range row {
			if value == nil {
				continue
			}
			record[key] = fmt.Sprintf("%v", value)
		}
		dataset.Rows = append(dataset.Rows, record)
	}

	switch format {
	case "pdf":
		content, err := s.pdf.Render(dataset, tabla)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportDocument{Content: content, ContentType: "application/pdf", Filename: tabla + ".pdf"}, nil
	case "", "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportDocument{Content: content, ContentType: "text/csv", Filename: tabla + ".csv"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Formato %q no soportado.", format))
	}
}
