package combine

import (
	"fmt"
	"strings"
	"time"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// dateLayouts are the formats the DataBase sheet's Date column has
// been seen in, depending on the cell style of the export.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"1/2/2006",
	"2-Jan-06",
}

// normalizeDB enriches one month's DataBase sheet with the Source
// label and, when a Date column exists, a zero-padded ISO week.
func normalizeDB(t models.Table, m models.Month) models.Table {
	t.AppendColumn(colSource, m.Source())

	dateIdx := t.ColumnIndex(colDate)
	if dateIdx < 0 {
		// Keep the schema identical to months that do carry dates.
		t.AppendColumn(colDate, "")
		t.AppendColumn(colWeek, "")
	} else {
		t.AppendColumn(colWeek, "")
		weekIdx := len(t.Header) - 1
		for _, row := range t.Rows {
			if d, ok := parseDate(row[dateIdx]); ok {
				_, week := d.ISOWeek()
				row[dateIdx] = d.Format(dateLayout)
				row[weekIdx] = fmt.Sprintf("%02d", week)
			}
		}
	}

	if parentIdx := t.ColumnIndex(colParent); parentIdx >= 0 {
		t.FilterRows(func(row []string) bool {
			return !computedParents[strings.TrimSpace(row[parentIdx])]
		})
	}

	return t
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
