package service

import (
	"fmt"
	"io"

	"github.com/candrapwr/information-extraction/utils"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet     = "Results"
	fileColumnWidth = 28
)

// ExportRow is one extracted document in a spreadsheet export.
type ExportRow struct {
	File string
	Data utils.Result
}

// WriteXLSX writes rows as a workbook with a single "Results" sheet. The
// header row is "file" followed by keys.
func WriteXLSX(w io.Writer, keys []string, rows []ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	header := make([]any, 0, len(keys)+1)
	header = append(header, "file")
	for _, k := range keys {
		header = append(header, k)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for i, r := range rows {
		values := make([]any, 0, len(keys)+1)
		values = append(values, r.File)
		for _, k := range keys {
			v, ok := r.Data[k]
			if !ok {
				v = utils.NotFound
			}
			values = append(values, v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", fileColumnWidth); err != nil {
		return fmt.Errorf("xlsx column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
