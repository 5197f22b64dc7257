package combine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// bsLabelColumns are the balance-sheet label columns kept when
// present, in this order.
var bsLabelColumns = []string{"Category", "Category2", "Last Category"}

var yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// normalizeBS reshapes one month's condensed balance sheet. The export
// carries one YYYY-MM column per month to date; the latest one is the
// month being consolidated and becomes the Amount column.
func normalizeBS(t models.Table, m models.Month) (models.Table, error) {
	var dateCols []string
	for _, h := range t.Header {
		if yearMonthPattern.MatchString(strings.TrimSpace(h)) {
			dateCols = append(dateCols, strings.TrimSpace(h))
		}
	}
	if len(dateCols) == 0 {
		return models.Table{}, &SchemaMismatchError{
			Sheet:  t.Name,
			Source: m.Source(),
			Reason: "no YYYY-MM amount columns found",
		}
	}
	sort.Strings(dateCols)
	latest := dateCols[len(dateCols)-1]
	latestIdx := t.ColumnIndex(latest)

	var labelIdx []int
	out := models.Table{Name: t.Name}
	for _, name := range bsLabelColumns {
		if i := t.ColumnIndex(name); i >= 0 {
			labelIdx = append(labelIdx, i)
			out.Header = append(out.Header, name)
		}
	}
	out.Header = append(out.Header, colAmount, colSource, colDate)

	for _, row := range t.Rows {
		slim := make([]string, 0, len(out.Header))
		for _, i := range labelIdx {
			slim = append(slim, row[i])
		}
		// Amounts pass through unmodified; only the P&L sheet needs
		// numeric coercion.
		slim = append(slim, row[latestIdx], m.Source(), latest+"-01")
		out.Rows = append(out.Rows, slim)
	}

	fill := make([]int, len(labelIdx))
	for i := range labelIdx {
		fill[i] = i
	}
	out.ForwardFill(fill...)

	out.FilterRows(func(row []string) bool {
		for i := range labelIdx {
			if containsFold(row[i], "total") {
				return false
			}
		}
		return true
	})

	return out, nil
}
