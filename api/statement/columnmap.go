package statement

import "strings"

// colAbsent marks a logical field with no matching header column.
const colAbsent = -1

// ColumnMap resolves logical fields to zero-based column indices for one
// file. It is built once from the header row and stays immutable for the rest
// of that parse; nothing here is shared across files.
type ColumnMap struct {
	Date        int
	Description int
	Amount      int
	Withdrawal  int
	Deposit     int
	Balance     int
}

// BuildColumnMap matches the layout's candidate names against the actual
// header row. Matching is case-insensitive substring containment, tried in
// the candidate list's declared order; the first header containing the
// candidate wins. Fields with no match resolve to absent rather than erroring
// because absence is legal for optional columns and validated downstream.
func BuildColumnMap(header []string, cfg LayoutConfig) ColumnMap {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	find := func(candidates []string) int {
		for _, cand := range candidates {
			for i, h := range lower {
				if strings.Contains(h, cand) {
					return i
				}
			}
		}
		return colAbsent
	}
	return ColumnMap{
		Date:        find(cfg.Date),
		Description: find(cfg.Description),
		Amount:      find(cfg.Amount),
		Withdrawal:  find(cfg.Withdrawal),
		Deposit:     find(cfg.Deposit),
		Balance:     find(cfg.Balance),
	}
}

// usable reports whether the map can drive row parsing at all: a date column,
// a description column, and at least one amount-bearing column.
func (cm ColumnMap) usable() bool {
	if cm.Date == colAbsent || cm.Description == colAbsent {
		return false
	}
	return cm.Amount != colAbsent || cm.Withdrawal != colAbsent || cm.Deposit != colAbsent
}

// cell safely reads one field from a row, returning "" when the row is short.
func cell(row []string, idx int) string {
	if idx == colAbsent || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
