package export

import (
	"context"
	"fmt"
	"path/filepath"

	"bjxgj-exporter/lib/sheets"
	"bjxgj-exporter/lib/timezone"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("export")

// WriteXLSX serializes a normalized table into an .xlsx workbook inside
// `dir`. The file name is the table's suggested name with a millisecond
// timestamp suffix so repeated exports never clobber each other.
// Returns the path of the written file.
func WriteXLSX(ctx context.Context, table sheets.Table, sheetName, dir string) (string, error) {
	_, span := tracer.Start(ctx, "WriteXLSX")
	defer span.End()
	span.SetAttributes(
		attribute.Int("rows", len(table.Rows)),
		attribute.Int("columns", len(table.Columns)),
	)

	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName("Sheet1", sheetName)
	if err != nil {
		return "", err
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	err = f.SetSheetRow(sheetName, "A1", &header)
	if err != nil {
		return "", err
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, len(table.Columns))
		for j, col := range table.Columns {
			// missing keys stay empty cells
			cells[j] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		err = f.SetSheetRow(sheetName, cell, &cells)
		if err != nil {
			return "", err
		}
	}

	path := filepath.Join(dir, fmt.Sprintf(
		"%s_%d.xlsx", table.Name, timezone.Now().UnixMilli(),
	))
	err = f.SaveAs(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save workbook")
		return "", err
	}
	return path, nil
}
