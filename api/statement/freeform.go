package statement

import (
	"fmt"
	"log"
	"regexp"
	"strings"
)

// Freeform parsing handles raw statement text pasted from OCR output or a
// banking portal: no columns, one transaction per line. The contract matches
// ParseDelimitedStatement, including the zero-rows pipeline failure.

var (
	// Leading date: 05/03/2024, 5-3-24, 2024-03-05.
	leadingDateRe = regexp.MustCompile(`^\s*(\d{1,4}[/-]\d{1,2}[/-]\d{1,4})\b`)
	// Amount tokens anywhere in the line, currency noise included. The \b
	// keeps digits embedded in words (Store12, A4) from counting as amounts.
	freeAmountRe = regexp.MustCompile(`\(?-?(?:₹|\$|£|€|Rs\.?\s*|INR\s*)?\b\d[\d,]*(?:\.\d{1,2})?\)?`)
	// Explicit direction markers that bank portals append after amounts.
	crMarkerRe = regexp.MustCompile(`(?i)\b(?:cr|credit)\b\.?`)
	drMarkerRe = regexp.MustCompile(`(?i)\b(?:dr|debit)\b\.?`)
)

var incomeKeywords = []string{"credited", "received", "salary", "refund", "interest earned", "cashback"}
var expenseKeywords = []string{"debited", "paid", "withdrawn", "purchase", "spent", "charged"}

// ParseFreeformStatementText extracts transactions from unstructured
// statement text, one line at a time: a leading date, the last amount-looking
// token as the amount, and whatever sits between them as the description.
func ParseFreeformStatementText(content, accountID, userID string) ([]ParsedTransaction, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, ErrEmptyStatement
	}

	var txns []ParsedTransaction
	for i, line := range lines {
		txn, ok := parseFreeformLine(line, accountID, userID)
		if !ok {
			warnRowSkipped(i+1, "no leading date or usable amount")
			continue
		}
		txns = append(txns, *txn)
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("%w (freeform text; %s)", ErrNoTransactionsParsed, SupportedLayoutsHint())
	}
	log.Printf("[STMT-PARSE] freeform: parsed %d transactions from %d lines", len(txns), len(lines))
	return txns, nil
}

func parseFreeformLine(line, accountID, userID string) (*ParsedTransaction, bool) {
	dm := leadingDateRe.FindStringSubmatch(line)
	if dm == nil {
		return nil, false
	}
	rest := strings.TrimSpace(line[len(dm[0]):])

	amounts := freeAmountRe.FindAllString(rest, -1)
	if len(amounts) == 0 {
		return nil, false
	}
	// Lines often end with "amount balance"; with two or more numeric tokens
	// the second-to-last is the transaction amount, otherwise the last.
	amountTok := amounts[len(amounts)-1]
	if len(amounts) >= 2 {
		amountTok = amounts[len(amounts)-2]
	}
	amount := parseAmount(amountTok)

	direction := freeformDirection(rest, amount)
	if amount < 0 {
		amount = -amount
	}
	if amount == 0 {
		return nil, false
	}

	desc := strings.TrimSpace(strings.Replace(rest, amountTok, "", 1))
	desc = strings.TrimSpace(crMarkerRe.ReplaceAllString(drMarkerRe.ReplaceAllString(desc, ""), ""))
	if desc == "" {
		return nil, false
	}

	// Reuse the delimited row assembly by synthesizing a two-column row.
	amountField := amountTok
	if direction == DirectionExpense && !strings.HasPrefix(cleanAmount(amountTok), "-") {
		amountField = "-" + cleanAmount(amountTok)
	}
	cm := ColumnMap{Date: 0, Description: 1, Amount: 2, Withdrawal: colAbsent, Deposit: colAbsent, Balance: colAbsent}
	synthetic := strings.Join([]string{dm[1], strings.ReplaceAll(desc, ",", " "), amountField}, ",")
	return ParseRow(synthetic, cm, accountID, userID)
}

// freeformDirection resolves direction from explicit Cr/Dr markers first,
// then transaction keywords, then the amount's sign (negative means expense).
func freeformDirection(rest string, amount float64) Direction {
	if drMarkerRe.MatchString(rest) && !crMarkerRe.MatchString(rest) {
		return DirectionExpense
	}
	if crMarkerRe.MatchString(rest) && !drMarkerRe.MatchString(rest) {
		return DirectionIncome
	}
	lc := strings.ToLower(rest)
	for _, kw := range expenseKeywords {
		if strings.Contains(lc, kw) {
			return DirectionExpense
		}
	}
	for _, kw := range incomeKeywords {
		if strings.Contains(lc, kw) {
			return DirectionIncome
		}
	}
	if amount < 0 {
		return DirectionExpense
	}
	return DirectionIncome
}
