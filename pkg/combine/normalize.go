package combine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// Column names shared by the normalizers.
const (
	colAmount = "Amount"
	colSource = "Source"
	colDate   = "Date"
	colWeek   = "Week"
	colParent = "Parent"
	colCat    = "Category"
	colTotal  = "Total"
)

const dateLayout = "2006-01-02"

// normalizeTable reshapes one month's raw sheet into the canonical
// schema for its target so every month lands on identical columns
// before combining.
func normalizeTable(t models.Table, target Target, m models.Month) (models.Table, error) {
	switch target.Kind {
	case KindPL:
		return normalizePL(t, m)
	case KindBS:
		return normalizeBS(t, m)
	case KindDB:
		return normalizeDB(t, m), nil
	default:
		t.AppendColumn(colSource, m.Source())
		t.AppendColumn(colDate, m.Date().Format(dateLayout))
		return t, nil
	}
}

// coerceNumber parses s as a number and returns its canonical string
// form, or "" when s is empty or not numeric. Thousands separators
// are tolerated.
func coerceNumber(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}
	return d.String()
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
