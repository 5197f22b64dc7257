package combine

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// LoadSheet opens the workbook at path and returns the first sheet
// matching one of names (case-insensitive exact match) as a table.
// The first row becomes the header; remaining rows are padded to the
// header width.
func LoadSheet(path string, names ...string) (models.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.Table{}, &UnreadableFileError{Path: path, Err: err}
	}
	defer f.Close()

	return sheetTable(f, path, names)
}

func sheetTable(f *excelize.File, path string, names []string) (models.Table, error) {
	available := f.GetSheetList()

	resolved := ""
	for _, want := range names {
		for _, have := range available {
			if strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want)) {
				resolved = have
				break
			}
		}
		if resolved != "" {
			break
		}
	}
	if resolved == "" {
		return models.Table{}, &MissingSheetError{Path: path, Tried: names, Available: available}
	}

	rows, err := f.GetRows(resolved)
	if err != nil {
		return models.Table{}, &UnreadableFileError{Path: path, Err: err}
	}

	t := models.Table{Name: resolved}
	if len(rows) == 0 {
		return t, nil
	}

	// Cells past the header width get a named placeholder column so
	// they stay visible and cannot shift appended columns like Source
	// off position.
	t.Header = rows[0]
	width := len(t.Header)
	for _, row := range rows[1:] {
		if len(row) > width {
			width = len(row)
		}
	}
	for i := len(t.Header); i < width; i++ {
		t.Header = append(t.Header, fmt.Sprintf("Unnamed: %d", i))
	}

	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells per row.
		for len(row) < len(t.Header) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
