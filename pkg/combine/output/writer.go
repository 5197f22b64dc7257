// Package output writes and reads combined workbooks.
package output

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine"
	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// Write saves the combined workbook to path, one sheet per table in
// order. Numeric-looking cells are written as numbers so the output
// stays usable in formulas.
func Write(path string, wb *models.CombinedWorkbook) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range wb.Tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return fmt.Errorf("output: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("output: create sheet %q: %w", t.Name, err)
		}
		if err := writeTable(f, t); err != nil {
			return fmt.Errorf("output: sheet %q: %w", t.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("output: save %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, t models.Table) error {
	header := make([]interface{}, len(t.Header))
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
		widths[i] = len(h)
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}

	for rowIdx, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = cellValue(v)
			if i < len(widths) && len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
			return err
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if w < 8 {
			w = 8
		}
		if err := f.SetColWidth(t.Name, col, col, float64(w)+2); err != nil {
			return err
		}
	}
	return nil
}

// cellValue converts a string cell to int64 or float64 when it parses
// as one, mirroring how the monthly sheets store amounts.
func cellValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// ReadCombined loads the tables of an existing combined workbook at
// path, matching targets by their output sheet name. Missing sheets
// are skipped; a missing file returns (nil, nil).
func ReadCombined(path string, targets []combine.Target) (*models.CombinedWorkbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	wb := &models.CombinedWorkbook{}
	for _, target := range targets {
		t, err := combine.LoadSheet(path, target.Output)
		if err != nil {
			var missing *combine.MissingSheetError
			if errors.As(err, &missing) {
				continue
			}
			return nil, err
		}
		t.Name = target.Output
		wb.Tables = append(wb.Tables, t)
	}
	return wb, nil
}

// Sources returns the normalized month source labels present in the
// combined workbook, taken from the first table carrying a Source
// column.
func Sources(wb *models.CombinedWorkbook) map[string]bool {
	sources := make(map[string]bool)
	if wb == nil {
		return sources
	}
	for _, t := range wb.Tables {
		idx := t.ColumnIndex("Source")
		if idx < 0 {
			continue
		}
		for _, row := range t.Rows {
			if s := normalizeSource(row[idx]); s != "" {
				sources[s] = true
			}
		}
		break
	}
	return sources
}

// normalizeSource brings legacy source labels ("1.2023") onto the
// current "YYYY/MM.YYYY" form so append mode recognizes them.
func normalizeSource(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "/") {
		return s
	}
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return s
	}
	month, err1 := strconv.Atoi(parts[0])
	_, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return s
	}
	return fmt.Sprintf("%s/%02d.%s", parts[1], month, parts[1])
}
