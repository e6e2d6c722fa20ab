package normalize

import (
	"fmt"
	"sort"

	"github.com/sells-group/payverify-cli/internal/model"
)

// normalizer cleans one raw value into a canonical value. Confidence passes
// through unchanged; only the value is transformed.
type normalizer func(model.RawFieldValue) model.FieldValue

// fieldMapping binds a raw extractor key to a canonical field and its cleaner.
// A zero Canonical marks a key the extractor emits but the canonical schema
// deliberately excludes.
type fieldMapping struct {
	Canonical model.CanonicalField
	Normalize normalizer
}

// paystubFieldMap translates raw paystub extractor keys into canonical names.
var paystubFieldMap = map[string]fieldMapping{
	"EmployeeName":          {model.FieldEmployeeName, normText},
	"EmployerName":          {model.FieldEmployerName, normText},
	"EmployerAddress":       {model.FieldEmployerAddress, normText},
	"EIN":                   {model.FieldEIN, normEIN},
	"JobTitle":              {model.FieldJobTitle, normTitle},
	"PayDate":               {model.FieldPayDate, normDate},
	"CurrentPeriodGrossPay": {model.FieldGrossAmount, normMoney},
	"TotalHoursWorked":      {model.FieldTotalHours, normNumber},
	"PayPeriodStartDate":    {model.FieldPayPeriodStartDate, normDate},
	"PayPeriodEndDate":      {model.FieldPayPeriodEndDate, normDate},

	// Present in extractor output but excluded from the canonical schema.
	"AveragePayRate":     {},
	"YearToDateGrossPay": {},
}

// Paystub maps and cleans raw paystub fields into canonical names. Raw keys
// with no mapping at all are returned as unmapped so callers can audit what
// the extractor sent that the schema does not know about.
func Paystub(raw model.RawFieldSet) (model.FieldSet, []string) {
	return apply(raw, paystubFieldMap)
}

// apply runs a field map over a raw set. Explicitly-ignored keys are dropped;
// unknown keys are collected (sorted) rather than silently swallowed.
func apply(raw model.RawFieldSet, mapping map[string]fieldMapping) (model.FieldSet, []string) {
	out := make(model.FieldSet, len(raw))
	var unmapped []string
	for key, item := range raw {
		fm, ok := mapping[key]
		if !ok {
			unmapped = append(unmapped, key)
			continue
		}
		if fm.Canonical == "" {
			continue
		}
		out[fm.Canonical] = fm.Normalize(item)
	}
	sort.Strings(unmapped)
	return out, unmapped
}

// valueString coerces a raw value to a string for the text-based cleaners.
func valueString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

func normText(item model.RawFieldValue) model.FieldValue {
	out := model.FieldValue{Confidence: item.Confidence}
	if v := SquashSpaces(valueString(item.Value)); v != "" {
		out.Value = v
	}
	return out
}

func normDate(item model.RawFieldValue) model.FieldValue {
	out := model.FieldValue{Confidence: item.Confidence}
	if v, ok := ParseDate(valueString(item.Value)); ok {
		out.Value = v
	}
	return out
}

func normMoney(item model.RawFieldValue) model.FieldValue {
	out := model.FieldValue{Confidence: item.Confidence}
	if v, ok := MoneyToFloat(CleanMoney(valueString(item.Value))); ok {
		out.Value = v
	}
	return out
}

func normNumber(item model.RawFieldValue) model.FieldValue {
	out := model.FieldValue{Confidence: item.Confidence}
	if v, ok := ToFloat(item.Value); ok {
		out.Value = v
	}
	return out
}

func normTitle(item model.RawFieldValue) model.FieldValue {
	out := model.FieldValue{Confidence: item.Confidence}
	if v := TitleCaseJob(valueString(item.Value)); v != "" {
		out.Value = v
	}
	return out
}

// normEIN keeps only values that are exactly six digits after stripping
// punctuation. The confidence still passes through on failure, so consumers
// can tell "source had something invalid" from "source had nothing".
func normEIN(item model.RawFieldValue) model.FieldValue {
	out := model.FieldValue{Confidence: item.Confidence}
	digits := ExtractDigits(valueString(item.Value))
	if ValidEIN(digits) {
		out.Value = digits
	}
	return out
}
