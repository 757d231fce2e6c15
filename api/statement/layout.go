package statement

import "strings"

// BankLayout identifies one of the known statement layouts. Keeping this a
// closed enum (instead of free-form registry keys) means an unknown layout
// cannot reach the parser at runtime.
type BankLayout int

const (
	LayoutGeneric BankLayout = iota
	LayoutICICI
	LayoutHDFC
	LayoutSBI
	LayoutAXIS
)

func (b BankLayout) String() string {
	switch b {
	case LayoutICICI:
		return "ICICI"
	case LayoutHDFC:
		return "HDFC"
	case LayoutSBI:
		return "SBI"
	case LayoutAXIS:
		return "AXIS"
	default:
		return "Generic"
	}
}

// LayoutConfig describes one bank's statement shape: for each logical field,
// an ordered list of header-name substrings to try, plus a date-format hint
// and how many leading non-data lines precede the header row.
type LayoutConfig struct {
	Bank        BankLayout
	Date        []string
	Description []string
	Amount      []string
	Withdrawal  []string
	Deposit     []string
	Balance     []string
	DateFormat  string
	HeaderSkip  int
}

// layoutConfigs is the static registry. Candidate order matters: the column
// mapper takes the first header whose lowercase text contains the candidate.
var layoutConfigs = map[BankLayout]LayoutConfig{
	LayoutICICI: {
		Bank:        LayoutICICI,
		Date:        []string{"value date", "transaction date", "date"},
		Description: []string{"transaction remarks", "remarks", "description", "narration"},
		Amount:      []string{"transaction amount", "amount"},
		Withdrawal:  []string{"withdrawal amount", "withdrawal amt", "debit"},
		Deposit:     []string{"deposit amount", "deposit amt", "credit"},
		Balance:     []string{"balance"},
		DateFormat:  "02/01/2006",
		HeaderSkip:  0,
	},
	LayoutHDFC: {
		Bank:        LayoutHDFC,
		Date:        []string{"date"},
		Description: []string{"narration", "description"},
		Amount:      []string{"amount"},
		Withdrawal:  []string{"withdrawal amt", "withdrawal", "debit amount", "debit"},
		Deposit:     []string{"deposit amt", "deposit", "credit amount", "credit"},
		Balance:     []string{"closing balance", "balance"},
		DateFormat:  "02/01/06",
		HeaderSkip:  0,
	},
	LayoutSBI: {
		Bank:        LayoutSBI,
		Date:        []string{"txn date", "value date", "date"},
		Description: []string{"description", "narration", "particulars"},
		Amount:      []string{"amount"},
		Withdrawal:  []string{"debit", "withdrawal"},
		Deposit:     []string{"credit", "deposit"},
		Balance:     []string{"balance"},
		DateFormat:  "02-01-2006",
		HeaderSkip:  0,
	},
	LayoutAXIS: {
		Bank:        LayoutAXIS,
		Date:        []string{"tran date", "date"},
		Description: []string{"particulars", "transaction details", "description"},
		Amount:      []string{"amount"},
		Withdrawal:  []string{"dr amount", "debit", "withdrawal"},
		Deposit:     []string{"cr amount", "credit", "deposit"},
		Balance:     []string{"balance"},
		DateFormat:  "02-01-2006",
		HeaderSkip:  0,
	},
	LayoutGeneric: {
		Bank:        LayoutGeneric,
		Date:        []string{"date"},
		Description: []string{"description", "narration", "particulars", "remarks", "details"},
		Amount:      []string{"amount"},
		Withdrawal:  []string{"withdrawal", "debit"},
		Deposit:     []string{"deposit", "credit"},
		Balance:     []string{"balance"},
		DateFormat:  "02/01/2006",
		HeaderSkip:  0,
	},
}

// LayoutFor returns the config for a layout, falling back to Generic.
func LayoutFor(b BankLayout) LayoutConfig {
	if cfg, ok := layoutConfigs[b]; ok {
		return cfg
	}
	return layoutConfigs[LayoutGeneric]
}

// SupportedLayouts lists the non-generic layout names for error hints.
func SupportedLayouts() []string {
	names := make([]string, 0, len(detectionOrder))
	for _, b := range detectionOrder {
		names = append(names, b.String())
	}
	return names
}

// SupportedLayoutsHint is appended to the zero-rows parse error so callers can
// tell users which statement exports are recognized.
func SupportedLayoutsHint() string {
	return "supported layouts: " + strings.Join(SupportedLayouts(), ", ") + " (plus a generic Date/Description/Amount fallback)"
}
