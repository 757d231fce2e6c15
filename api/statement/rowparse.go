package statement

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// isoDateFormat is what ParsedTransaction.Date carries regardless of the
// source layout's date style.
const isoDateFormat = "2006-01-02"

// splitDelimited splits one statement line on the delimiter while honoring
// double-quoted segments: a field may contain the delimiter only inside
// matching quotes. Doubled quotes inside a quoted field collapse to one.
func splitDelimited(line string, delim rune) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
		runes  = []rune(line)
	)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if quoted && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			quoted = !quoted
		case r == delim && !quoted:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// cleanAmount strips currency symbols, thousands separators and whitespace,
// and rewrites parenthesized negatives, leaving a plain signed number string.
func cleanAmount(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	replacer := strings.NewReplacer(
		"₹", "", "$", "", "£", "", "€", "",
		"Rs.", "", "Rs", "", "INR", "",
		",", "", " ", "", " ", "",
	)
	s = strings.TrimSpace(replacer.Replace(s))
	if neg && s != "" && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// parseAmount converts a raw statement cell to a signed float. Anything that
// survives cleaning but still is not numeric becomes 0 so the caller drops
// the row instead of propagating NaN.
func parseAmount(raw string) float64 {
	cleaned := cleanAmount(raw)
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// txnDateLayouts is the ordered pattern list for statement dates. Day-first
// layouts come before the ISO one on purpose: Indian bank exports are
// day-first and 05/03/2024 must read as 5 March.
var txnDateLayouts = []string{
	"02/01/2006", "2/1/2006",
	"02/01/06", "2/1/06",
	"02-01-2006", "2-1-2006",
	"2006-01-02",
}

// parseTxnDate tries each supported layout in order and returns the date in
// ISO form. Two-digit years use a pivot: >50 reads as 19xx, otherwise 20xx.
// When nothing matches it falls back to today rather than failing the row;
// see the dateFallback tests for why that trade-off is flagged.
func parseTxnDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range txnDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if strings.Contains(layout, "06") && !strings.Contains(layout, "2006") {
			t = applyYearPivot(t, s)
		}
		return t.Format(isoDateFormat)
	}
	return time.Now().Format(isoDateFormat)
}

// applyYearPivot rewrites the year of a two-digit-year parse using the >50
// pivot instead of Go's default 69/68 split.
func applyYearPivot(t time.Time, raw string) time.Time {
	idx := strings.LastIndexAny(raw, "/-")
	if idx < 0 || idx+1 >= len(raw) {
		return t
	}
	yy, err := strconv.Atoi(strings.TrimSpace(raw[idx+1:]))
	if err != nil || yy > 99 {
		return t
	}
	year := 2000 + yy
	if yy > 50 {
		year = 1900 + yy
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRow turns one data line into a ParsedTransaction. The second return is
// false when the row is dropped: missing date or description, or an amount
// that resolves to zero. Statement footers and ad banners routinely produce
// such rows, so dropping is silent at the row level.
func ParseRow(line string, cm ColumnMap, accountID, userID string) (*ParsedTransaction, bool) {
	row := splitDelimited(line, ',')

	dateRaw := cell(row, cm.Date)
	desc := normalizeCell(cell(row, cm.Description))
	if dateRaw == "" || desc == "" {
		return nil, false
	}

	amount, direction := resolveAmount(row, cm)
	if amount <= 0 {
		return nil, false
	}

	title := deriveTitle(desc)
	merchant := extractMerchant(desc)

	txn := &ParsedTransaction{
		UserID:       userID,
		AccountID:    accountID,
		Name:         title,
		Description:  desc,
		Amount:       amount,
		Date:         parseTxnDate(dateRaw),
		Direction:    direction,
		MerchantName: merchant,
	}

	counterpart := merchant
	if counterpart == "" {
		counterpart = title
	}
	if direction == DirectionExpense {
		txn.SourceAccountType = NormalizeAccountType("", AccountTypeBank)
		txn.SourceAccountID = accountID
		txn.DestAccountType = AccountTypeOther
		txn.DestAccountName = counterpart
	} else {
		txn.SourceAccountType = AccountTypeOther
		txn.SourceAccountName = counterpart
		txn.DestAccountType = NormalizeAccountType("", AccountTypeBank)
		txn.DestAccountID = accountID
	}
	return txn, true
}

// resolveAmount prefers dedicated withdrawal/deposit columns; whichever holds
// a positive number decides the direction. When neither is populated it falls
// back to a single signed amount column (negative means expense).
func resolveAmount(row []string, cm ColumnMap) (float64, Direction) {
	withdrawal := parseAmount(cell(row, cm.Withdrawal))
	deposit := parseAmount(cell(row, cm.Deposit))
	if withdrawal > 0 {
		return withdrawal, DirectionExpense
	}
	if deposit > 0 {
		return deposit, DirectionIncome
	}
	amount := parseAmount(cell(row, cm.Amount))
	if amount < 0 {
		return -amount, DirectionExpense
	}
	return amount, DirectionIncome
}

// warnRowSkipped keeps row-level drops observable without failing the parse.
func warnRowSkipped(lineNo int, reason string) {
	log.Printf("[STMT-PARSE] skipping line %d: %s", lineNo, reason)
}
