package model

// Source identifies where a canonical field value may come from.
type Source string

const (
	SourcePaystub Source = "paystub"
	SourceEV      Source = "ev"
	SourceDerived Source = "derived"
)

// RawFieldValue is a single field as returned by an extraction collaborator.
// Confidence is on a 0-100 scale; nil means the extractor reported none.
type RawFieldValue struct {
	Value      any      `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// RawFieldSet maps extractor-specific field names to raw values. Keys are not
// unique across sources and need not overlap with canonical names.
type RawFieldSet map[string]RawFieldValue

// FieldValue is a cleaned value keyed by a canonical field name. Confidence is
// carried through from the raw value unchanged; normalization never invents or
// discounts it.
type FieldValue struct {
	Value      any      `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// Empty reports whether the value is absent. A nil value or empty string both
// count as "field absent", not as errors.
func (v FieldValue) Empty() bool {
	if v.Value == nil {
		return true
	}
	s, ok := v.Value.(string)
	return ok && s == ""
}

// CanonicalField is an entry in the fixed canonical schema.
type CanonicalField string

const (
	FieldEmployeeName           CanonicalField = "EmployeeName"
	FieldEmployerName           CanonicalField = "EmployerName"
	FieldEmployerAddress        CanonicalField = "EmployerAddress"
	FieldEIN                    CanonicalField = "EIN"
	FieldHireDate               CanonicalField = "HireDate"
	FieldJobTitle               CanonicalField = "JobTitle"
	FieldPayDate                CanonicalField = "PayDate"
	FieldGrossAmount            CanonicalField = "GrossAmount"
	FieldTotalHours             CanonicalField = "TotalHours"
	FieldPayPeriodStartDate     CanonicalField = "PayPeriodStartDate"
	FieldPayPeriodEndDate       CanonicalField = "PayPeriodEndDate"
	FieldPayFrequency           CanonicalField = "PayFrequency"
	FieldLossOfEmploymentDate   CanonicalField = "LossOfEmploymentDate"
	FieldLossOfEmploymentReason CanonicalField = "LossOfEmploymentReason"
	FieldDateOfLastPaycheck     CanonicalField = "DateOfLastPaycheck"
)

// CanonicalFields lists every canonical field in output order. The order has no
// semantic effect on merge results but keeps output deterministic.
var CanonicalFields = []CanonicalField{
	FieldEmployeeName,
	FieldEmployerName,
	FieldEmployerAddress,
	FieldEIN,
	FieldHireDate,
	FieldJobTitle,
	FieldPayDate,
	FieldGrossAmount,
	FieldTotalHours,
	FieldPayPeriodStartDate,
	FieldPayPeriodEndDate,
	FieldPayFrequency,
	FieldLossOfEmploymentDate,
	FieldLossOfEmploymentReason,
	FieldDateOfLastPaycheck,
}

// FieldSet maps canonical field names to cleaned values. One instance per
// source per document, produced by normalization.
type FieldSet map[CanonicalField]FieldValue

// UnifiedRecord maps every canonical field to exactly one resolved value.
// Fields no source supplied resolve to a nil value with nil confidence.
type UnifiedRecord map[CanonicalField]FieldValue

// UnifiedResult wraps the unified record with a status marker. This is the
// caller-facing output shape of a reconciliation.
type UnifiedResult struct {
	Status          string        `json:"status"`
	ExtractedFields UnifiedRecord `json:"extracted_fields"`
}
