package statement

import "strings"

// detectionOrder fixes the priority for signature matching. First match wins;
// there is no scoring, so content mentioning two banks resolves to whichever
// comes first here.
var detectionOrder = []BankLayout{LayoutICICI, LayoutHDFC, LayoutSBI, LayoutAXIS}

// bankSignatures maps a layout to the substrings that identify its exports.
var bankSignatures = map[BankLayout][]string{
	LayoutICICI: {"icici"},
	LayoutHDFC:  {"hdfc"},
	LayoutSBI:   {"state bank of india", "sbi"},
	LayoutAXIS:  {"axis"},
}

// DetectBank sniffs raw statement content for bank-identifying substrings.
// It is a pure function: no match is a normal (LayoutGeneric, false) result,
// never an error.
func DetectBank(content string) (BankLayout, bool) {
	lc := strings.ToLower(content)
	for _, bank := range detectionOrder {
		for _, sig := range bankSignatures[bank] {
			if strings.Contains(lc, sig) {
				return bank, true
			}
		}
	}
	return LayoutGeneric, false
}
