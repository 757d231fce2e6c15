package statement

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every field ParseRow populates must survive the insert; the counterpart
// name on expense rows lives in destination_account_name.
func TestBuildInsertChunkStmtCarriesAllAccountFields(t *testing.T) {
	expense := ParsedTransaction{
		TransactionID:     "t-1",
		UserID:            "user-1",
		AccountID:         "acc-1",
		Name:              "ACME",
		Description:       "UPI/ACME/groceries",
		Amount:            500,
		Date:              "2024-02-01",
		Direction:         DirectionExpense,
		SourceAccountType: AccountTypeBank,
		SourceAccountID:   "acc-1",
		DestAccountType:   AccountTypeOther,
		DestAccountName:   "ACME",
		MerchantName:      "ACME",
	}
	income := ParsedTransaction{
		TransactionID:     "t-2",
		UserID:            "user-1",
		AccountID:         "acc-1",
		Name:              "MEGA CORP",
		Description:       "NEFT-N12345-MEGA CORP-salary",
		Amount:            40000,
		Date:              "2024-02-02",
		Direction:         DirectionIncome,
		SourceAccountType: AccountTypeOther,
		SourceAccountName: "MEGA CORP",
		DestAccountType:   AccountTypeBank,
		DestAccountID:     "acc-1",
		MerchantName:      "MEGA CORP",
	}

	stmt, args := buildInsertChunkStmt([]ParsedTransaction{expense, income})

	assert.Contains(t, stmt, "source_account_name")
	assert.Contains(t, stmt, "destination_account_name")
	require.Len(t, args, 2*len(insertColumns))

	// Arg order mirrors insertColumns record by record.
	destNameIdx := -1
	srcNameIdx := -1
	for i, col := range insertColumns {
		switch col {
		case "destination_account_name":
			destNameIdx = i
		case "source_account_name":
			srcNameIdx = i
		}
	}
	require.GreaterOrEqual(t, destNameIdx, 0)
	require.GreaterOrEqual(t, srcNameIdx, 0)
	assert.Equal(t, "ACME", args[destNameIdx], "expense counterpart name must be persisted")
	assert.Equal(t, "MEGA CORP", args[len(insertColumns)+srcNameIdx])
}

func TestBuildInsertChunkStmtPlaceholders(t *testing.T) {
	records := []ParsedTransaction{{TransactionID: "t-1"}, {TransactionID: "t-2"}, {TransactionID: "t-3"}}
	stmt, args := buildInsertChunkStmt(records)

	want := len(records) * len(insertColumns)
	assert.Len(t, args, want)
	assert.Equal(t, want, strings.Count(stmt, "$"))
	assert.Contains(t, stmt, fmt.Sprintf("$%d", want), "last placeholder must be numbered")
	assert.Contains(t, stmt, "RETURNING transaction_id")
}
