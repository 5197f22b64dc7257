// Package combine consolidates monthly financial workbooks into a
// single combined workbook.
package combine

import (
	"io"
	"log/slog"
)

// Kind selects the per-sheet normalization applied before combining.
type Kind string

const (
	// KindPL applies profit-and-loss normalization: Amount coercion
	// from month-named columns, parent ordering, subtotal filtering.
	KindPL Kind = "pl"
	// KindBS applies balance-sheet normalization: latest YYYY-MM
	// column becomes Amount, subtotal rows are dropped.
	KindBS Kind = "bs"
	// KindDB applies database-sheet normalization: Date parsing and
	// ISO week derivation.
	KindDB Kind = "db"
	// KindRaw applies no normalization beyond the Source and Date
	// columns.
	KindRaw Kind = "raw"
)

// Target describes one sheet tracked across all months.
type Target struct {
	// Name is the canonical input sheet name.
	Name string `yaml:"name"`
	// Aliases are sheet names tried in order, case-insensitively.
	// When empty, only Name is tried.
	Aliases []string `yaml:"aliases,omitempty"`
	// Output is the combined sheet name in the output workbook.
	Output string `yaml:"output"`
	// Kind selects the normalization applied to each month's table.
	Kind Kind `yaml:"kind"`
}

// Candidates returns the sheet names to try, in order.
func (t Target) Candidates() []string {
	if len(t.Aliases) == 0 {
		return []string{t.Name}
	}
	return t.Aliases
}

// Options configures discovery and combining. It is threaded through
// calls explicitly; there is no package-level state.
type Options struct {
	// MonthlyFilename is the workbook file expected in each month
	// folder.
	MonthlyFilename string
	// MonthPattern is the regexp month folders must match. It needs
	// two capture groups: month then year.
	MonthPattern string
	// Targets are the sheets combined across months, in output order.
	Targets []Target
	// Workers bounds concurrent workbook reads. Values below 2 mean
	// sequential.
	Workers int
	// SkipSources are month source labels (e.g. "2023/01.2023") to
	// exclude from combining, used by append mode.
	SkipSources map[string]bool
	// Logger receives progress output. Defaults to a discarding
	// logger.
	Logger *slog.Logger
}

// DefaultMonthPattern matches MM.YYYY folder names such as "01.2023".
const DefaultMonthPattern = `^(\d{1,2})\.(\d{4})$`

// DefaultOptions returns the default configuration: the three tracked
// financial sheets with the sheet name variants the monthly exports
// are known to use.
func DefaultOptions() Options {
	return Options{
		MonthlyFilename: "monthly.xlsx",
		MonthPattern:    DefaultMonthPattern,
		Workers:         1,
		Targets: []Target{
			{
				Name:    "P&L",
				Aliases: []string{"P&L", "P&L by Month"},
				Output:  "P&L Combined",
				Kind:    KindPL,
			},
			{
				Name:    "BS Condensed",
				Aliases: []string{"BS Condensed", "BS by Month Condensed"},
				Output:  "BS Condensed Combined",
				Kind:    KindBS,
			},
			{
				Name:    "DataBase",
				Aliases: []string{"DataBase", "DataBase Result"},
				Output:  "DataBase Combined",
				Kind:    KindDB,
			},
		},
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
