package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildColumnMap(t *testing.T) {
	cfg := LayoutFor(LayoutGeneric)

	t.Run("standard header", func(t *testing.T) {
		cm := BuildColumnMap([]string{"Date", "Description", "Amount", "Balance"}, cfg)
		assert.Equal(t, 0, cm.Date)
		assert.Equal(t, 1, cm.Description)
		assert.Equal(t, 2, cm.Amount)
		assert.Equal(t, 3, cm.Balance)
		assert.Equal(t, colAbsent, cm.Withdrawal)
		assert.True(t, cm.usable())
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		cm := BuildColumnMap([]string{"TXN DATE", "Transaction Narration", "WITHDRAWAL AMT", "Deposit Amt"}, cfg)
		assert.Equal(t, 0, cm.Date)
		assert.Equal(t, 1, cm.Description)
		assert.Equal(t, 2, cm.Withdrawal)
		assert.Equal(t, 3, cm.Deposit)
		assert.True(t, cm.usable())
	})

	t.Run("candidate order beats header order", func(t *testing.T) {
		// SBI lists "txn date" before plain "date": the later header column
		// still wins because candidates are tried in declared order.
		cm := BuildColumnMap([]string{"Value Date", "Txn Date", "Description", "Debit"}, LayoutFor(LayoutSBI))
		assert.Equal(t, 1, cm.Date)
	})

	t.Run("missing date is unusable", func(t *testing.T) {
		cm := BuildColumnMap([]string{"Description", "Amount"}, cfg)
		assert.False(t, cm.usable())
	})

	t.Run("missing all amount columns is unusable", func(t *testing.T) {
		cm := BuildColumnMap([]string{"Date", "Description", "Balance"}, cfg)
		assert.False(t, cm.usable())
	})

	t.Run("withdrawal-only is usable", func(t *testing.T) {
		cm := BuildColumnMap([]string{"Date", "Narration", "Debit"}, cfg)
		assert.True(t, cm.usable())
	})
}

func TestCell(t *testing.T) {
	row := []string{"a", " b ", "c"}
	assert.Equal(t, "a", cell(row, 0))
	assert.Equal(t, "b", cell(row, 1))
	assert.Equal(t, "", cell(row, 5))
	assert.Equal(t, "", cell(row, colAbsent))
}
