package statement

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Sentinel errors surfaced to callers; everything row-level is handled inside
// the parse loop instead.
var (
	ErrEmptyStatement       = errors.New("statement content is empty")
	ErrHeaderRowNotFound    = errors.New("statement header row not found")
	ErrNoTransactionsParsed = errors.New("no transactions could be parsed from the statement")
)

// noRowsError builds the loud pipeline-level failure for a parse that drops
// every row: callers must see an actionable error, never fabricated records.
func noRowsError(layout BankLayout) error {
	return fmt.Errorf("%w (detected layout %s; %s)", ErrNoTransactionsParsed, layout, SupportedLayoutsHint())
}

// ParseDelimitedStatement parses a delimited statement export end to end:
// bank detection, header resolution, column mapping, then per-row parsing.
// Rows that fail to parse are skipped with a warning; a file that yields zero
// valid rows is a hard error.
func ParseDelimitedStatement(content, accountID, userID string) ([]ParsedTransaction, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, ErrEmptyStatement
	}

	layout, detected := DetectBank(content)
	cfg := LayoutFor(layout)
	if !detected {
		log.Printf("[STMT-PARSE] no bank signature matched, using generic layout")
	} else {
		log.Printf("[STMT-PARSE] detected %s layout", layout)
	}

	headerIdx, cm := findHeader(lines, cfg)
	if headerIdx < 0 && layout != LayoutGeneric {
		// The bank signature matched but its header names did not; the
		// generic candidates are broader, so try those before giving up.
		cfg = LayoutFor(LayoutGeneric)
		headerIdx, cm = findHeader(lines, cfg)
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w (%s)", ErrHeaderRowNotFound, SupportedLayoutsHint())
	}

	txns := make([]ParsedTransaction, 0, len(lines)-headerIdx-1)
	for i := headerIdx + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		txn, ok := ParseRow(line, cm, accountID, userID)
		if !ok {
			warnRowSkipped(i+1, "missing date/description or zero amount")
			continue
		}
		txns = append(txns, *txn)
	}
	if len(txns) == 0 {
		return nil, noRowsError(layout)
	}
	log.Printf("[STMT-PARSE] parsed %d transactions from %d lines (%s layout)", len(txns), len(lines), layout)
	return txns, nil
}

// findHeader locates the header row: skip the layout's declared lead-in, then
// take the first line whose column map resolves date, description and an
// amount column. Statements front-loaded with address blocks make a fixed
// offset alone unreliable, so the scan runs over the first 20 lines.
func findHeader(lines []string, cfg LayoutConfig) (int, ColumnMap) {
	start := cfg.HeaderSkip
	if start >= len(lines) {
		return -1, ColumnMap{}
	}
	limit := start + 20
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := start; i < limit; i++ {
		header := splitDelimited(lines[i], ',')
		cm := BuildColumnMap(header, cfg)
		if cm.usable() {
			return i, cm
		}
	}
	return -1, ColumnMap{}
}

func splitLines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(l, "\r"))
	}
	return lines
}
