// Package models defines data structures for workbook consolidation.
package models

import (
	"fmt"
	"time"
)

// Month identifies one monthly source folder and its workbook.
type Month struct {
	// Year is the four-digit year from the parent folder.
	Year int `json:"year"`
	// Month is the month number (1-12) from the MM.YYYY folder.
	Month int `json:"month"`
	// Dir is the path of the month folder.
	Dir string `json:"dir"`
	// WorkbookPath is the path of the monthly workbook inside Dir.
	WorkbookPath string `json:"workbook_path"`
}

// Source returns the normalized source label, e.g. "2023/01.2023".
func (m Month) Source() string {
	return fmt.Sprintf("%d/%02d.%d", m.Year, m.Month, m.Year)
}

// Date returns the first day of the month.
func (m Month) Date() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether m is chronologically before other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}
