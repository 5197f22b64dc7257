package combine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is(). The typed errors below wrap
// these so callers can match either the category or the concrete type.
var (
	// ErrStructure indicates the folder layout violates the expected
	// root/<YYYY>/<MM.YYYY> pattern.
	ErrStructure = errors.New("invalid folder structure")

	// ErrMissingSheet indicates an expected sheet is absent from a
	// source workbook.
	ErrMissingSheet = errors.New("sheet not found")

	// ErrUnreadableFile indicates a file could not be parsed as a
	// workbook.
	ErrUnreadableFile = errors.New("unreadable workbook")

	// ErrSchemaMismatch indicates a sheet's header differs across
	// months.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// StructureError reports a folder that violates the expected layout.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("invalid folder structure at %s: %s", e.Path, e.Reason)
}

func (e *StructureError) Unwrap() error { return ErrStructure }

// MissingSheetError reports an expected sheet absent from a workbook.
// Available lists the sheet names actually present, for diagnostics.
type MissingSheetError struct {
	Path      string
	Tried     []string
	Available []string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("no sheet matching %s in %s (available: %s)",
		strings.Join(e.Tried, ", "), e.Path, strings.Join(e.Available, ", "))
}

func (e *MissingSheetError) Unwrap() error { return ErrMissingSheet }

// UnreadableFileError reports a file that could not be opened as a
// workbook.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("cannot read workbook %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() []error { return []error{ErrUnreadableFile, e.Err} }

// SchemaMismatchError reports a month whose sheet header differs from
// the first month's header for the same target sheet.
type SchemaMismatchError struct {
	Sheet  string
	Source string
	Want   []string
	Got    []string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("schema mismatch in sheet %q (%s): %s", e.Sheet, e.Source, e.Reason)
	}
	return fmt.Sprintf("schema mismatch in sheet %q (%s): header [%s] differs from [%s]",
		e.Sheet, e.Source, strings.Join(e.Got, ", "), strings.Join(e.Want, ", "))
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }
