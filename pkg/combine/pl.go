package combine

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// parentOrder maps P&L section labels to their canonical ordered form.
var parentOrder = map[string]string{
	"Income":              "1 Income",
	"Cogs":                "2 COGS",
	"Gross Profit":        "3 Gross Profit",
	"Expenses":            "5 Expenses",
	"Net Ordinary Income": "6 Net Ordinary Income",
	"Other Income":        "7 Other Income",
	"Other Expenses":      "8 Other Expenses",
	"Net Income":          "9 Net Income",
}

// computedParents are sections derived from the others; their rows are
// dropped because downstream consumers recompute them.
var computedParents = map[string]bool{
	"3 Gross Profit":        true,
	"6 Net Ordinary Income": true,
	"9 Net Income":          true,
}

// sectionParents are the sections whose per-section "Total" rows are
// redundant with the detail rows and get dropped.
var sectionParents = map[string]bool{
	"1 Income":         true,
	"2 COGS":           true,
	"5 Expenses":       true,
	"7 Other Income":   true,
	"8 Other Expenses": true,
	"Income":           true,
	"COGS":             true,
	"Expenses":         true,
	"Other Income":     true,
	"Other Expenses":   true,
}

var titleCaser = cases.Title(language.English)

// normalizePL reshapes one month's P&L sheet onto the canonical
// schema. "P&L by Month" exports carry the amounts in a column named
// after the month instead of "Amount"; that column is located, coerced
// to numeric, and renamed.
func normalizePL(t models.Table, m models.Month) (models.Table, error) {
	if t.ColumnIndex(colAmount) < 0 {
		if err := liftMonthColumn(&t, m); err != nil {
			return models.Table{}, err
		}
	}

	t.AppendColumn(colSource, m.Source())
	t.AppendColumn(colDate, m.Date().Format(dateLayout))
	_, week := m.Date().ISOWeek()
	t.AppendColumn(colWeek, strconv.Itoa(week))

	parentIdx := t.ColumnIndex(colParent)
	catIdx := t.ColumnIndex(colCat)
	for _, col := range []string{colParent, colCat} {
		if t.ColumnIndex(col) < 0 {
			return models.Table{}, &SchemaMismatchError{
				Sheet:  t.Name,
				Source: m.Source(),
				Reason: fmt.Sprintf("missing required column %q", col),
			}
		}
	}

	// Rows carrying a section label are that section's total rows.
	for _, row := range t.Rows {
		if strings.TrimSpace(row[parentIdx]) != "" {
			row[catIdx] = "Total " + row[catIdx]
		}
	}

	var fill []int
	for i, h := range t.Header {
		switch h {
		case colAmount, colDate, colSource:
		default:
			fill = append(fill, i)
		}
	}
	t.ForwardFill(fill...)

	for _, row := range t.Rows {
		parent := titleCaser.String(strings.ToLower(strings.TrimSpace(row[parentIdx])))
		if mapped, ok := parentOrder[parent]; ok {
			parent = mapped
		}
		row[parentIdx] = parent
	}

	t.FilterRows(func(row []string) bool {
		if computedParents[row[parentIdx]] {
			return false
		}
		if containsFold(row[catIdx], "total") && sectionParents[row[parentIdx]] {
			return false
		}
		return true
	})

	return t, nil
}

// liftMonthColumn finds the column holding the month's amounts,
// coerces it to a numeric Amount column, and drops the original along
// with any grand-total column.
func liftMonthColumn(t *models.Table, m models.Month) error {
	monthName := m.Date().Month().String()

	banned := map[string]bool{"parent": true, "category": true, "total": true}
	picked := -1
	candidates := 0
	lastCandidate := -1
	for i, h := range t.Header {
		name := strings.ToLower(strings.TrimSpace(h))
		if banned[name] {
			continue
		}
		candidates++
		lastCandidate = i
		if strings.EqualFold(name, monthName) {
			picked = i
		}
	}
	if picked < 0 && candidates == 1 {
		picked = lastCandidate
	}
	if picked < 0 {
		return &SchemaMismatchError{
			Sheet:  t.Name,
			Source: m.Source(),
			Reason: fmt.Sprintf("no %q column and no column named %q", colAmount, monthName),
		}
	}

	amounts := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		amounts[i] = coerceNumber(row[picked])
	}
	t.AppendColumn(colAmount, "")
	last := len(t.Header) - 1
	for i := range t.Rows {
		t.Rows[i][last] = amounts[i]
	}

	t.DropColumns(picked, t.ColumnIndex(colTotal))
	return nil
}
