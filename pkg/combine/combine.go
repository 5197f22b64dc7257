package combine

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/Arturodev0/excel-monthly-financial-combiner/pkg/combine/models"
)

// ErrNoNewMonths is returned by Run when every discovered month is in
// Options.SkipSources, i.e. the combined output is already up to date.
var ErrNoNewMonths = errors.New("no new months to combine")

// Runner consolidates monthly workbooks according to its options.
type Runner struct {
	opts Options
	log  *slog.Logger
}

// New returns a Runner for the given options.
func New(opts Options) *Runner {
	return &Runner{opts: opts, log: opts.logger()}
}

// Run discovers months under root, combines every target sheet across
// them in chronological order, and returns the combined workbook. Any
// discovery, read, or schema failure aborts the run; nothing is
// written here, so a failed run leaves no partial output.
func (r *Runner) Run(root string) (*models.CombinedWorkbook, error) {
	months, err := DiscoverMonths(root, r.opts)
	if err != nil {
		return nil, err
	}
	r.log.Info("discovered months", "count", len(months))

	if len(r.opts.SkipSources) > 0 {
		kept := months[:0]
		for _, m := range months {
			if r.opts.SkipSources[m.Source()] {
				r.log.Debug("skipping month already present in output", "source", m.Source())
				continue
			}
			kept = append(kept, m)
		}
		months = kept
	}
	if len(months) == 0 {
		return nil, ErrNoNewMonths
	}

	loads, err := r.loadAll(months)
	if err != nil {
		return nil, err
	}

	wb := &models.CombinedWorkbook{}
	for _, target := range r.opts.Targets {
		combined, err := combineLoaded(loads, months, target)
		if err != nil {
			return nil, err
		}
		r.log.Info("combined sheet", "sheet", target.Output, "rows", len(combined.Rows))
		wb.Tables = append(wb.Tables, combined)
	}
	return wb, nil
}

// Combine loads one target sheet from every month and concatenates the
// data rows chronologically. The header comes from the first month;
// later months must match it exactly.
func (r *Runner) Combine(months []models.Month, target Target) (models.Table, error) {
	targets := []Target{target}
	loads := make([]map[string]models.Table, len(months))
	for i, m := range months {
		load, err := r.loadMonth(m, targets)
		if err != nil {
			return models.Table{}, err
		}
		loads[i] = load
	}
	return combineLoaded(loads, months, target)
}

// loadAll reads every month's workbook, concurrently when Workers
// allows it. Results land in slots indexed by the month's position so
// chronological order is preserved at assembly time regardless of
// read order.
func (r *Runner) loadAll(months []models.Month) ([]map[string]models.Table, error) {
	loads := make([]map[string]models.Table, len(months))
	errs := make([]error, len(months))

	workers := r.opts.Workers
	if workers > len(months) {
		workers = len(months)
	}

	if workers < 2 {
		for i, m := range months {
			load, err := r.loadMonth(m, r.opts.Targets)
			if err != nil {
				return nil, err
			}
			loads[i] = load
		}
		return loads, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				loads[i], errs[i] = r.loadMonth(months[i], r.opts.Targets)
			}
		}()
	}
	for i := range months {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Report the chronologically first failure for determinism.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return loads, nil
}

// loadMonth opens one workbook, extracts each target sheet, and
// normalizes it. The file is closed before returning on every path.
func (r *Runner) loadMonth(m models.Month, targets []Target) (map[string]models.Table, error) {
	f, err := excelize.OpenFile(m.WorkbookPath)
	if err != nil {
		return nil, &UnreadableFileError{Path: m.WorkbookPath, Err: err}
	}
	defer f.Close()

	r.log.Debug("reading workbook", "source", m.Source(), "path", m.WorkbookPath)

	load := make(map[string]models.Table, len(targets))
	for _, target := range targets {
		raw, err := sheetTable(f, m.WorkbookPath, target.Candidates())
		if err != nil {
			return nil, err
		}
		normalized, err := normalizeTable(raw, target, m)
		if err != nil {
			return nil, err
		}
		load[target.Output] = normalized
	}
	return load, nil
}

func combineLoaded(loads []map[string]models.Table, months []models.Month, target Target) (models.Table, error) {
	out := models.Table{Name: target.Output}
	for i, m := range months {
		t := loads[i][target.Output]
		if i == 0 {
			out.Header = t.Header
		} else if !t.HeaderEquals(out.Header) {
			return models.Table{}, &SchemaMismatchError{
				Sheet:  target.Name,
				Source: m.Source(),
				Want:   out.Header,
				Got:    t.Header,
			}
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out, nil
}

// MergeAppend appends fresh's rows after existing's for each table,
// enforcing that headers still match. A nil existing returns fresh
// unchanged. Neither input is modified.
func MergeAppend(existing, fresh *models.CombinedWorkbook) (*models.CombinedWorkbook, error) {
	if existing == nil {
		return fresh, nil
	}

	out := &models.CombinedWorkbook{}
	for _, ft := range fresh.Tables {
		prev := existing.Table(ft.Name)
		if prev == nil {
			out.Tables = append(out.Tables, ft.Clone())
			continue
		}
		if !ft.HeaderEquals(prev.Header) {
			return nil, &SchemaMismatchError{
				Sheet:  ft.Name,
				Source: "existing output",
				Want:   prev.Header,
				Got:    ft.Header,
			}
		}
		merged := prev.Clone()
		merged.Rows = append(merged.Rows, ft.Rows...)
		out.Tables = append(out.Tables, merged)
	}
	return out, nil
}
