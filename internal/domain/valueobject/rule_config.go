package valueobject

import (
	"regexp"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// RuleConfig – structured predicate parsed from free-text offer conditions
// ---------------------------------------------------------------------------

// RuleConfig holds the eligibility thresholds extracted from an offer's
// free-text conditions. A nil field means the offer does not constrain that
// dimension. Notes keeps the original text for audit.
type RuleConfig struct {
	MinCreditScore              *int
	MaxDaysPastDue              *int
	DisallowActiveDelinquencies bool
	Notes                       string
}

var (
	minScoreRe = regexp.MustCompile(`score\s*[>=]+\s*(\d+)`)
	maxDPDRe   = regexp.MustCompile(`(?:>\s*)?(\d+)\s*days?`)
)

// Phrasings accepted as a delinquency exclusion.
var delinquencyPhrasings = []string{
	"no active delinquency",
	"without active delinquency",
}

// ParseRuleConfig maps a free-text conditions string to a RuleConfig. The
// mapping is best-effort pattern matching over a small rule vocabulary:
// anything it does not recognise is ignored rather than rejected, so an
// unparsable condition yields an unconstrained config. Evaluation stays
// strict; only the parsing fails open.
func ParseRuleConfig(conditions string) RuleConfig {
	text := strings.ToLower(conditions)

	cfg := RuleConfig{Notes: conditions}

	if m := minScoreRe.FindStringSubmatch(text); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			cfg.MinCreditScore = &score
		}
	}

	for _, phrase := range delinquencyPhrasings {
		if strings.Contains(text, phrase) {
			cfg.DisallowActiveDelinquencies = true
			break
		}
	}

	if m := maxDPDRe.FindStringSubmatch(text); m != nil {
		if dpd, err := strconv.Atoi(m[1]); err == nil {
			cfg.MaxDaysPastDue = &dpd
		}
	} else if cfg.DisallowActiveDelinquencies {
		// A delinquency exclusion with no explicit day count means zero
		// days past due tolerated.
		zero := 0
		cfg.MaxDaysPastDue = &zero
	}

	return cfg
}
