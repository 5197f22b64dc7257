package models

// CombinedWorkbook is the consolidation result: one combined table per
// tracked sheet, in target order.
type CombinedWorkbook struct {
	// Tables holds the combined tables. Table.Name carries the output
	// sheet name (e.g. "P&L Combined").
	Tables []Table `json:"tables"`
}

// Table returns the combined table with the given name, or nil.
func (w *CombinedWorkbook) Table(name string) *Table {
	for i := range w.Tables {
		if w.Tables[i].Name == name {
			return &w.Tables[i]
		}
	}
	return nil
}
