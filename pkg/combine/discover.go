package combine

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// DiscoverMonths scans root for year directories containing MM.YYYY
// month folders and returns the months sorted ascending by
// (year, month). The scan is non-recursive at two levels: entries at
// the root that are not all-digit directory names are ignored, but
// every subdirectory of a year directory must match the month pattern.
func DiscoverMonths(root string, opts Options) ([]models.Month, error) {
	pattern, err := regexp.Compile(opts.MonthPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid month pattern %q: %w", opts.MonthPattern, err)
	}
	if pattern.NumSubexp() != 2 {
		return nil, fmt.Errorf("month pattern %q must have exactly two capture groups (month, year)", opts.MonthPattern)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &StructureError{Path: root, Reason: fmt.Sprintf("cannot read root: %v", err)}
	}

	var months []models.Month
	for _, entry := range entries {
		if !entry.IsDir() || !allDigits(entry.Name()) {
			continue
		}
		year, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		yearPath := filepath.Join(root, entry.Name())
		found, err := scanYear(yearPath, year, pattern, opts)
		if err != nil {
			return nil, err
		}
		months = append(months, found...)
	}

	if len(months) == 0 {
		return nil, &StructureError{Path: root, Reason: "no year directories with month subfolders found"}
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	for i := 1; i < len(months); i++ {
		if !months[i-1].Before(months[i]) {
			return nil, &StructureError{
				Path:   months[i].Dir,
				Reason: fmt.Sprintf("duplicate month %02d.%d (also %s)", months[i].Month, months[i].Year, months[i-1].Dir),
			}
		}
	}

	return months, nil
}

func scanYear(yearPath string, year int, pattern *regexp.Regexp, opts Options) ([]models.Month, error) {
	entries, err := os.ReadDir(yearPath)
	if err != nil {
		return nil, &StructureError{Path: yearPath, Reason: fmt.Sprintf("cannot read year directory: %v", err)}
	}

	var months []models.Month
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			return nil, &StructureError{
				Path:   filepath.Join(yearPath, entry.Name()),
				Reason: fmt.Sprintf("folder name does not match month pattern %q", pattern.String()),
			}
		}

		monthNum, err := strconv.Atoi(m[1])
		if err != nil || monthNum < 1 || monthNum > 12 {
			return nil, &StructureError{
				Path:   filepath.Join(yearPath, entry.Name()),
				Reason: fmt.Sprintf("month %q out of range", m[1]),
			}
		}
		folderYear, err := strconv.Atoi(m[2])
		if err != nil || folderYear != year {
			return nil, &StructureError{
				Path:   filepath.Join(yearPath, entry.Name()),
				Reason: fmt.Sprintf("folder year %q does not match parent year %d", m[2], year),
			}
		}

		dir := filepath.Join(yearPath, entry.Name())
		workbook := filepath.Join(dir, opts.MonthlyFilename)
		if _, err := os.Stat(workbook); err != nil {
			return nil, &StructureError{Path: dir, Reason: fmt.Sprintf("missing workbook %s", opts.MonthlyFilename)}
		}

		months = append(months, models.Month{
			Year:         year,
			Month:        monthNum,
			Dir:          dir,
			WorkbookPath: workbook,
		})
	}

	if len(months) == 0 {
		return nil, &StructureError{Path: yearPath, Reason: "year directory contains no month subfolders"}
	}
	return months, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
