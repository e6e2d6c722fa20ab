package merge

import (
	"time"

	"github.com/sells-group/payverify-cli/internal/model"
)

// Pay frequency labels.
const (
	FreqWeekly      = "Weekly"
	FreqBiWeekly    = "Bi-Weekly"
	FreqSemiMonthly = "Semi-Monthly"
	FreqMonthly     = "Monthly"
)

// derivedConfidence is fixed at 100: a derivation is a deterministic
// computation, not an extraction.
const derivedConfidence = 100.0

// derivation computes a field with no direct source from the normalized
// paystub set. A false return leaves the field as resolved by priority.
type derivation func(ps model.FieldSet) (model.FieldValue, bool)

// derivations registers every field the engine knows how to compute.
var derivations = map[model.CanonicalField]derivation{
	model.FieldPayFrequency: derivePayFrequency,
}

// derivePayFrequency classifies the inclusive day count of the pay period.
// The thresholds are a deliberate heuristic, not exact calendar arithmetic
// (a 20-day Semi-Monthly window is not calendar-exact); downstream consumers
// depend on these exact boundaries.
func derivePayFrequency(ps model.FieldSet) (model.FieldValue, bool) {
	start, ok := dateValue(ps, model.FieldPayPeriodStartDate)
	if !ok {
		return model.FieldValue{}, false
	}
	end, ok := dateValue(ps, model.FieldPayPeriodEndDate)
	if !ok {
		return model.FieldValue{}, false
	}

	days := int(end.Sub(start).Hours()/24) + 1

	var freq string
	switch {
	case days <= 8:
		freq = FreqWeekly
	case days <= 15:
		freq = FreqBiWeekly
	case days <= 20:
		freq = FreqSemiMonthly
	default:
		freq = FreqMonthly
	}

	conf := derivedConfidence
	return model.FieldValue{Value: freq, Confidence: &conf}, true
}

// dateValue reads a normalized YYYY-MM-DD date from the set. Absent or
// malformed values fail the derivation rather than raising.
func dateValue(ps model.FieldSet, field model.CanonicalField) (time.Time, bool) {
	s, ok := ps[field].Value.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	dt, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return dt, true
}
