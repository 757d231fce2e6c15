package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBank(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     BankLayout
		detected bool
	}{
		{"icici header", "ICICI Bank Statement\nValue Date,Transaction Remarks", LayoutICICI, true},
		{"hdfc narration", "Date,Narration,Withdrawal Amt\nsome HDFC NetBanking export", LayoutHDFC, true},
		{"sbi full name", "State Bank of India account statement", LayoutSBI, true},
		{"sbi short form", "Txn Date,Description\nSBI savings", LayoutSBI, true},
		{"axis", "AXIS BANK Tran Date,Particulars", LayoutAXIS, true},
		{"case insensitive", "statement from icici direct", LayoutICICI, true},
		{"no signature", "Date,Description,Amount\n01/02/2024,Coffee,100", LayoutGeneric, false},
		{"empty", "", LayoutGeneric, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, detected := DetectBank(tt.content)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.detected, detected)
		})
	}
}

// Content naming two banks must resolve to the earlier one in the fixed
// priority order, deterministically.
func TestDetectBankPriorityOrder(t *testing.T) {
	got, detected := DetectBank("transfer from HDFC to AXIS account")
	assert.True(t, detected)
	assert.Equal(t, LayoutHDFC, got)

	got, detected = DetectBank("ICICI statement mentioning sbi branch")
	assert.True(t, detected)
	assert.Equal(t, LayoutICICI, got)
}
