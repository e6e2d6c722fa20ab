// Package merge reconciles normalized paystub and employment-verification
// field sets into one unified record using hard source priority.
package merge

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/payverify-cli/internal/model"
)

// priority expresses hard per-field source preference, read top to bottom as
// "first source with a non-empty value wins". There is no confidence-based
// arbitration anywhere in the merge; priority is purely source identity, which
// keeps merge behavior predictable and auditable.
var priority = map[model.CanonicalField][]model.Source{
	// Shared fields, paystub first.
	model.FieldEmployeeName:    {model.SourcePaystub, model.SourceEV},
	model.FieldEmployerName:    {model.SourcePaystub, model.SourceEV},
	model.FieldEmployerAddress: {model.SourcePaystub, model.SourceEV},
	model.FieldEIN:             {model.SourcePaystub, model.SourceEV},
	model.FieldJobTitle:        {model.SourcePaystub, model.SourceEV},
	model.FieldTotalHours:      {model.SourcePaystub, model.SourceEV},

	// Paystub-only.
	model.FieldPayDate:            {model.SourcePaystub},
	model.FieldGrossAmount:        {model.SourcePaystub},
	model.FieldPayPeriodStartDate: {model.SourcePaystub},
	model.FieldPayPeriodEndDate:   {model.SourcePaystub},

	// Always computed from the paystub period dates, never taken from a raw
	// source. The EV extractor's own PayFrequency guess is on the ignore list.
	model.FieldPayFrequency: {model.SourceDerived},

	// EV-only.
	model.FieldHireDate:               {model.SourceEV},
	model.FieldLossOfEmploymentDate:   {model.SourceEV},
	model.FieldLossOfEmploymentReason: {model.SourceEV},
	model.FieldDateOfLastPaycheck:     {model.SourceEV},
}

// ValidateRules checks the priority table against the canonical schema. It is
// called once at process start; a failure is a programmer error fatal to
// startup, never a per-document condition.
func ValidateRules() error {
	for _, field := range model.CanonicalFields {
		sources, ok := priority[field]
		if !ok || len(sources) == 0 {
			return eris.Errorf("merge: canonical field %s has no priority entry", field)
		}
		for _, src := range sources {
			switch src {
			case model.SourcePaystub, model.SourceEV:
			case model.SourceDerived:
				if _, ok := derivations[field]; !ok {
					return eris.Errorf("merge: field %s lists derived but has no derivation", field)
				}
			default:
				return eris.Errorf("merge: field %s references unknown source %q", field, src)
			}
		}
	}
	if len(priority) != len(model.CanonicalFields) {
		return eris.Errorf("merge: priority table has %d entries, schema has %d fields",
			len(priority), len(model.CanonicalFields))
	}
	return nil
}
