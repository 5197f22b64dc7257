package combine

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// FileConfig models the optional YAML configuration file. Every field
// is optional; unset fields keep their defaults.
type FileConfig struct {
	MonthlyFilename string   `yaml:"monthly_filename,omitempty"`
	MonthPattern    string   `yaml:"month_pattern,omitempty"`
	Workers         int      `yaml:"workers,omitempty"`
	Sheets          []Target `yaml:"sheets,omitempty"`
}

// LoadConfig reads a YAML config file and applies it over opts,
// returning the merged options.
func LoadConfig(path string, opts Options) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return opts, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if fc.MonthlyFilename != "" {
		opts.MonthlyFilename = fc.MonthlyFilename
	}
	if fc.MonthPattern != "" {
		opts.MonthPattern = fc.MonthPattern
	}
	if fc.Workers > 0 {
		opts.Workers = fc.Workers
	}
	if len(fc.Sheets) > 0 {
		opts.Targets = fc.Sheets
	}

	if err := Validate(opts); err != nil {
		return opts, fmt.Errorf("config: %s: %w", path, err)
	}
	return opts, nil
}

// Validate checks the options for internal consistency.
func Validate(opts Options) error {
	re, err := regexp.Compile(opts.MonthPattern)
	if err != nil {
		return fmt.Errorf("invalid month pattern %q: %w", opts.MonthPattern, err)
	}
	if re.NumSubexp() != 2 {
		return fmt.Errorf("month pattern %q must have exactly two capture groups (month, year)", opts.MonthPattern)
	}
	if opts.MonthlyFilename == "" {
		return fmt.Errorf("monthly filename must not be empty")
	}
	if len(opts.Targets) == 0 {
		return fmt.Errorf("at least one sheet target is required")
	}
	seen := make(map[string]bool, len(opts.Targets))
	for _, t := range opts.Targets {
		if t.Name == "" || t.Output == "" {
			return fmt.Errorf("sheet target needs both name and output (got name=%q output=%q)", t.Name, t.Output)
		}
		if seen[t.Output] {
			return fmt.Errorf("duplicate output sheet %q", t.Output)
		}
		seen[t.Output] = true
		switch t.Kind {
		case KindPL, KindBS, KindDB, KindRaw, "":
		default:
			return fmt.Errorf("unknown sheet kind %q for target %q", t.Kind, t.Name)
		}
	}
	return nil
}
