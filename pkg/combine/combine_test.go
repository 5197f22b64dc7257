package combine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// monthFixture describes one monthly workbook to generate.
type monthFixture struct {
	year, month int
	plRows      [][]interface{} // data rows under the P&L header
	plHeader    []interface{}   // defaults to Parent/Category/Amount
	skipDB      bool
}

func writeFixture(t *testing.T, root string, fx monthFixture, opts Options) {
	t.Helper()

	dir := filepath.Join(root, itoa(fx.year), itoa2(fx.month)+"."+itoa(fx.year))
	require.NoError(t, os.MkdirAll(dir, 0o755))

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "P&L"))
	header := fx.plHeader
	if header == nil {
		header = []interface{}{"Parent", "Category", "Amount"}
	}
	require.NoError(t, f.SetSheetRow("P&L", "A1", &header))
	for i, row := range fx.plRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("P&L", cell, &row))
	}

	_, err := f.NewSheet("BS Condensed")
	require.NoError(t, err)
	ym := itoa(fx.year) + "-" + itoa2(fx.month)
	bsHeader := []interface{}{"Category", ym}
	require.NoError(t, f.SetSheetRow("BS Condensed", "A1", &bsHeader))
	bsRow := []interface{}{"Cash", 42}
	require.NoError(t, f.SetSheetRow("BS Condensed", "A2", &bsRow))

	if !fx.skipDB {
		_, err = f.NewSheet("DataBase")
		require.NoError(t, err)
		dbHeader := []interface{}{"Item", "Amount"}
		require.NoError(t, f.SetSheetRow("DataBase", "A1", &dbHeader))
		dbRow := []interface{}{"entry", 1}
		require.NoError(t, f.SetSheetRow("DataBase", "A2", &dbRow))
	}

	require.NoError(t, f.SaveAs(filepath.Join(dir, opts.MonthlyFilename)))
}

func itoa(n int) string  { return itoaPad(n, 0) }
func itoa2(n int) string { return itoaPad(n, 2) }

func itoaPad(n, width int) string {
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func plRow(category string, amount float64) []interface{} {
	return []interface{}{"", category, amount}
}

func TestRunCombinesMonthsChronologically(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	writeFixture(t, root, monthFixture{
		year: 2023, month: 1,
		plRows: [][]interface{}{plRow("Sales", 100), plRow("Services", 50)},
	}, opts)
	writeFixture(t, root, monthFixture{
		year: 2023, month: 2,
		plRows: [][]interface{}{plRow("Sales", 110), plRow("Services", 55), plRow("Rentals", 5)},
	}, opts)

	wb, err := New(opts).Run(root)
	require.NoError(t, err)
	require.Len(t, wb.Tables, 3)

	pl := wb.Table("P&L Combined")
	require.NotNil(t, pl)
	assert.Equal(t, []string{"Parent", "Category", "Amount", "Source", "Date", "Week"}, pl.Header)
	require.Len(t, pl.Rows, 5, "combined rows must equal the per-month sum")

	srcIdx := pl.ColumnIndex("Source")
	for i, want := range []string{"2023/01.2023", "2023/01.2023", "2023/02.2023", "2023/02.2023", "2023/02.2023"} {
		assert.Equal(t, want, pl.Rows[i][srcIdx], "row %d out of chronological order", i)
	}

	bs := wb.Table("BS Condensed Combined")
	require.NotNil(t, bs)
	assert.Len(t, bs.Rows, 2)

	db := wb.Table("DataBase Combined")
	require.NotNil(t, db)
	assert.Len(t, db.Rows, 2)
}

func TestRunIsDeterministic(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	writeFixture(t, root, monthFixture{year: 2023, month: 1, plRows: [][]interface{}{plRow("Sales", 1)}}, opts)
	writeFixture(t, root, monthFixture{year: 2023, month: 2, plRows: [][]interface{}{plRow("Sales", 2)}}, opts)

	first, err := New(opts).Run(root)
	require.NoError(t, err)
	second, err := New(opts).Run(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunWorkerPoolMatchesSequential(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	for m := 1; m <= 6; m++ {
		writeFixture(t, root, monthFixture{year: 2023, month: m, plRows: [][]interface{}{plRow("Sales", float64(m))}}, opts)
	}

	sequential, err := New(opts).Run(root)
	require.NoError(t, err)

	opts.Workers = 4
	pooled, err := New(opts).Run(root)
	require.NoError(t, err)

	assert.Equal(t, sequential, pooled)
}

func TestRunSchemaMismatchFailsRun(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	writeFixture(t, root, monthFixture{year: 2023, month: 1, plRows: [][]interface{}{plRow("Sales", 1)}}, opts)
	writeFixture(t, root, monthFixture{
		year: 2023, month: 2,
		plHeader: []interface{}{"Parent", "Category", "Amount", "Note"},
		plRows:   [][]interface{}{{"", "Sales", 2, "x"}},
	}, opts)

	_, err := New(opts).Run(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "2023/02.2023", mismatch.Source)
}

func TestRunMissingSheetFailsRun(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	writeFixture(t, root, monthFixture{year: 2023, month: 1, plRows: [][]interface{}{plRow("Sales", 1)}, skipDB: true}, opts)

	_, err := New(opts).Run(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSheet)

	var missing *MissingSheetError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Available, "P&L")
}

func TestRunUnreadableWorkbookFailsRun(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	dir := filepath.Join(root, "2023", "01.2023")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, opts.MonthlyFilename), []byte("not an xlsx"), 0o644))

	_, err := New(opts).Run(root)
	assert.ErrorIs(t, err, ErrUnreadableFile)
}

func TestRunSkipSources(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	writeFixture(t, root, monthFixture{year: 2023, month: 1, plRows: [][]interface{}{plRow("Sales", 1)}}, opts)
	writeFixture(t, root, monthFixture{year: 2023, month: 2, plRows: [][]interface{}{plRow("Sales", 2)}}, opts)

	opts.SkipSources = map[string]bool{"2023/01.2023": true}
	wb, err := New(opts).Run(root)
	require.NoError(t, err)

	pl := wb.Table("P&L Combined")
	require.Len(t, pl.Rows, 1)
	assert.Equal(t, "2023/02.2023", pl.Rows[0][pl.ColumnIndex("Source")])

	opts.SkipSources["2023/02.2023"] = true
	_, err = New(opts).Run(root)
	assert.ErrorIs(t, err, ErrNoNewMonths)
}

func TestCombineSingleTarget(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	writeFixture(t, root, monthFixture{year: 2023, month: 1, plRows: [][]interface{}{plRow("Sales", 1)}}, opts)
	writeFixture(t, root, monthFixture{year: 2023, month: 2, plRows: [][]interface{}{plRow("Sales", 2)}}, opts)

	months, err := DiscoverMonths(root, opts)
	require.NoError(t, err)

	table, err := New(opts).Combine(months, opts.Targets[0])
	require.NoError(t, err)
	assert.Equal(t, "P&L Combined", table.Name)
	assert.Len(t, table.Rows, 2)
}

func TestMergeAppend(t *testing.T) {
	existing := &models.CombinedWorkbook{Tables: []models.Table{{
		Name:   "P&L Combined",
		Header: []string{"Category", "Amount"},
		Rows:   [][]string{{"Sales", "1"}},
	}}}
	fresh := &models.CombinedWorkbook{Tables: []models.Table{{
		Name:   "P&L Combined",
		Header: []string{"Category", "Amount"},
		Rows:   [][]string{{"Sales", "2"}},
	}}}

	merged, err := MergeAppend(existing, fresh)
	require.NoError(t, err)
	require.Len(t, merged.Tables, 1)
	assert.Equal(t, [][]string{{"Sales", "1"}, {"Sales", "2"}}, merged.Tables[0].Rows)

	// Existing rows must not be mutated.
	assert.Len(t, existing.Tables[0].Rows, 1)

	same, err := MergeAppend(nil, fresh)
	require.NoError(t, err)
	assert.Equal(t, fresh, same)
}

func TestMergeAppendSchemaMismatch(t *testing.T) {
	existing := &models.CombinedWorkbook{Tables: []models.Table{{
		Name:   "P&L Combined",
		Header: []string{"Category", "Amount"},
	}}}
	fresh := &models.CombinedWorkbook{Tables: []models.Table{{
		Name:   "P&L Combined",
		Header: []string{"Category", "Amount", "Note"},
	}}}

	_, err := MergeAppend(existing, fresh)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
