package normalize

import "github.com/sells-group/payverify-cli/internal/model"

// reasonPrefixes are label variants the EV extractor leaves on the
// employment-end reason. The misspellings mirror the custom model's output.
var reasonPrefixes = []string{
	"Reason:",
	"Reason -",
	"Reason –",
}

// evFieldMap translates raw employment-verification extractor keys into
// canonical names. Key spellings (EmplyomentEndDate, EmplymentType) match the
// custom extraction model's field labels exactly.
var evFieldMap = map[string]fieldMapping{
	"EmployeeName":            {model.FieldEmployeeName, normText},
	"CompanyName":             {model.FieldEmployerName, normText},
	"Company Address":         {model.FieldEmployerAddress, normText},
	"EIN":                     {model.FieldEIN, normEIN},
	"HireDate":                {model.FieldHireDate, normDate},
	"JobTitle":                {model.FieldJobTitle, normTitle},
	"AverageWorkingHours":     {model.FieldTotalHours, normNumber},
	"EmplyomentEndDate":       {model.FieldLossOfEmploymentDate, normDate},
	"EmploymentEndDateReason": {model.FieldLossOfEmploymentReason, normReason},
	"FinalPayCheckDate":       {model.FieldDateOfLastPaycheck, normDate},

	// Present in extractor output but excluded from the canonical schema.
	// PayFrequency in particular must never be trusted from this source; it is
	// always derived from the paystub period dates.
	"FirstPayCheckDate":      {},
	"PayFrequency":           {},
	"AvgPay":                 {},
	"AvgPayFrequency":        {},
	"EmplymentType":          {},
	"FinalPayCheckAmt":       {},
	"FinalFourPayCheckTable": {},
}

// EV maps and cleans raw employment-verification fields into canonical names.
// Raw keys with no mapping at all are returned as unmapped.
func EV(raw model.RawFieldSet) (model.FieldSet, []string) {
	return apply(raw, evFieldMap)
}

func normReason(item model.RawFieldValue) model.FieldValue {
	out := model.FieldValue{Confidence: item.Confidence}
	v := StripPrefix(valueString(item.Value), reasonPrefixes)
	if v = SquashSpaces(v); v != "" {
		out.Value = v
	}
	return out
}
