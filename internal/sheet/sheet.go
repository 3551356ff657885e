// Package sheet reads and writes the spreadsheets admins exchange with the dashboard.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Read returns the rows of the first sheet of an .xlsx workbook or of a .csv file. ext selects the format.
func Read(r io.Reader, ext string) ([][]string, error) {
	switch strings.ToLower(ext) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("excelize.OpenReader > %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("f.GetRows(%s) > %w", sheets[0], err)
		}
		return rows, nil
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("csv.ReadAll > %w", err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q: use .xlsx or .csv", ext)
	}
}

// Write renders a single-sheet workbook with a header row followed by rows.
func Write(w io.Writer, sheetName string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("f.SetSheetName(%s) > %w", sheetName, err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName > %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("f.SetCellValue(%s) > %w", cell, err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName > %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow(%s) > %w", cell, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("f.WriteTo > %w", err)
	}
	return nil
}
