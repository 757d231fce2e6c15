package statement

import (
	"regexp"
	"strings"
)

const maxTitleLen = 50

// Payment-network narration patterns. Each matcher is tried in order and the
// first hit wins; keeping them as named independent funcs makes the cascade
// testable matcher by matcher.
var (
	// UPI/ACME/xyz, UPI-ACME-xyz, UPI/512345/ACME/okhdfcbank
	upiRe = regexp.MustCompile(`(?i)UPI[/\-]([^/\-]+)`)
	// UPI/512345/ACME/... — numeric reference first, party second
	upiRefRe = regexp.MustCompile(`(?i)UPI[/\-]\d+[/\-]([^/\-]+)`)
	// NEFT-REF123-ACME TRADERS- / NEFT/REF/ACME
	neftRe = regexp.MustCompile(`(?i)(?:NEFT|RTGS|INFT)[/\-][A-Z0-9]+[/\-]([^/\-]+)`)
	// IMPS/123456789012/ACME/...
	impsRe = regexp.MustCompile(`(?i)(?:MMT[/\-])?IMPS[/\-]\d+[/\-]([^/\-]+)`)
	// POS 412345XXXXXX SOME STORE or POS/SOME STORE
	posRe = regexp.MustCompile(`(?i)POS[ /\-](?:[X\d]+[ /\-])?([A-Za-z][A-Za-z0-9 .&'-]+)`)
	// ATM WDL / ATM-CASH
	atmRe = regexp.MustCompile(`(?i)\bATM\b`)
	// ACH/ECS mandates: ACH D- ACME INSURANCE
	achRe = regexp.MustCompile(`(?i)(?:ACH|ECS|NACH)[ /\-]+[A-Z]?[ /\-]*([A-Za-z][A-Za-z0-9 .&'-]+)`)

	numericOnlyRe = regexp.MustCompile(`^\d+$`)
)

type titleMatcher struct {
	name  string
	match func(desc string) string
}

// titleMatchers is the chain of responsibility for deriving a short display
// title from a raw narration. Order matters: specific network prefixes before
// the generic fallback.
var titleMatchers = []titleMatcher{
	{"upi-ref", matchUPIWithRef},
	{"upi", matchUPI},
	{"neft", matchNEFT},
	{"imps", matchIMPS},
	{"pos", matchPOS},
	{"atm", matchATM},
	{"ach", matchACH},
	{"first-words", matchFirstWords},
}

func matchUPIWithRef(desc string) string {
	if m := upiRefRe.FindStringSubmatch(desc); m != nil {
		return cleanParty(m[1])
	}
	return ""
}

func matchUPI(desc string) string {
	if m := upiRe.FindStringSubmatch(desc); m != nil {
		return cleanParty(m[1])
	}
	return ""
}

func matchNEFT(desc string) string {
	if m := neftRe.FindStringSubmatch(desc); m != nil {
		return cleanParty(m[1])
	}
	return ""
}

func matchIMPS(desc string) string {
	if m := impsRe.FindStringSubmatch(desc); m != nil {
		return cleanParty(m[1])
	}
	return ""
}

func matchPOS(desc string) string {
	if m := posRe.FindStringSubmatch(desc); m != nil {
		return cleanParty(m[1])
	}
	return ""
}

func matchATM(desc string) string {
	if atmRe.MatchString(desc) {
		return "ATM Withdrawal"
	}
	return ""
}

func matchACH(desc string) string {
	if m := achRe.FindStringSubmatch(desc); m != nil {
		return cleanParty(m[1])
	}
	return ""
}

// matchFirstWords is the generic fallback: the first four words of the
// narration.
func matchFirstWords(desc string) string {
	words := strings.Fields(desc)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}

// cleanParty rejects captures that are plainly reference numbers and trims
// narration noise around the party name.
func cleanParty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || numericOnlyRe.MatchString(s) {
		return ""
	}
	return s
}

// deriveTitle runs the matcher cascade and truncates to the display limit.
func deriveTitle(desc string) string {
	for _, m := range titleMatchers {
		if title := m.match(desc); title != "" {
			return truncateTitle(title)
		}
	}
	return truncateTitle(desc)
}

func truncateTitle(s string) string {
	s = strings.TrimSpace(s)
	// Cut on rune boundaries; a byte slice can split a multibyte character.
	if r := []rune(s); len(r) > maxTitleLen {
		s = strings.TrimSpace(string(r[:maxTitleLen]))
	}
	return s
}

// extractMerchant pulls a best-effort merchant name from network-style
// narrations only; a generic narration yields no merchant rather than a
// fabricated one.
func extractMerchant(desc string) string {
	for _, m := range titleMatchers {
		if m.name == "atm" || m.name == "first-words" {
			continue
		}
		if party := m.match(desc); party != "" {
			return truncateTitle(party)
		}
	}
	return ""
}
