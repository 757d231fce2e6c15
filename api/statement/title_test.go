package statement

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{"upi with ref", "UPI/512345678/ACME STORES/okhdfcbank", "ACME STORES"},
		{"upi plain", "UPI/swiggy/payment", "swiggy"},
		{"upi dashes", "UPI-bigbasket-order", "bigbasket"},
		{"neft", "NEFT-N123456789-ACME TRADERS-invoice", "ACME TRADERS"},
		{"rtgs", "RTGS/UTIB0000123/MEGA CORP", "MEGA CORP"},
		{"imps", "IMPS/404212345678/RAVI KUMAR/transfer", "RAVI KUMAR"},
		{"mmt imps", "MMT/IMPS/404212345678/PRIYA/gift", "PRIYA"},
		{"pos", "POS 412345XXXXXX1234 DMART AVENUE", "DMART AVENUE"},
		{"atm", "ATM WDL 123456 MG ROAD", "ATM Withdrawal"},
		{"ach", "ACH D- ACME INSURANCE PREMIUM", "ACME INSURANCE PREMIUM"},
		{"fallback first four words", "monthly maintenance charges for savings account", "monthly maintenance charges for"},
		{"short fallback", "reversal", "reversal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveTitle(tt.desc))
		})
	}
}

func TestDeriveTitleTruncation(t *testing.T) {
	long := "UPI/" + strings.Repeat("VERYLONGMERCHANTNAME", 5) + "/ref"
	got := deriveTitle(long)
	assert.LessOrEqual(t, len(got), maxTitleLen)
	assert.NotEmpty(t, got)
}

// Truncation counts runes, so a multibyte narration never yields a name with
// a broken trailing character.
func TestDeriveTitleTruncationMultibyte(t *testing.T) {
	long := strings.Repeat("₹", maxTitleLen+10) + " store payment"
	got := deriveTitle(long)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), maxTitleLen)
}

// A numeric-only capture is a reference number, not a party; the cascade must
// fall through to the next matcher.
func TestDeriveTitleSkipsNumericCaptures(t *testing.T) {
	got := deriveTitle("UPI/512345678")
	assert.Equal(t, "UPI/512345678", got) // first-words fallback
}

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{"upi merchant", "UPI/512345678/ACME STORES/okhdfcbank", "ACME STORES"},
		{"pos merchant", "POS 412345XXXXXX1234 DMART AVENUE", "DMART AVENUE"},
		{"atm yields none", "ATM WDL 123456 MG ROAD", ""},
		{"plain narration yields none", "monthly maintenance charges", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMerchant(tt.desc))
		})
	}
}
