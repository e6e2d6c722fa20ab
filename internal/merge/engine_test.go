package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/payverify-cli/internal/model"
)

func conf(c float64) *float64 { return &c }

func TestByPriorityPaystubWinsSharedFields(t *testing.T) {
	ps := model.FieldSet{
		model.FieldEmployeeName: {Value: "JOHN SMITH", Confidence: conf(10)},
	}
	ev := model.FieldSet{
		model.FieldEmployeeName: {Value: "John Smith", Confidence: conf(99)},
	}

	final := ByPriority(ps, ev)

	// Source priority only; a higher-confidence EV value never displaces the
	// paystub value.
	assert.Equal(t, "JOHN SMITH", final[model.FieldEmployeeName].Value)
	assert.Equal(t, 10.0, *final[model.FieldEmployeeName].Confidence)
}

func TestByPriorityEVFallback(t *testing.T) {
	ev := model.FieldSet{
		model.FieldEmployerName: {Value: "Acme Co", Confidence: conf(80)},
	}

	final := ByPriority(model.FieldSet{}, ev)

	assert.Equal(t, "Acme Co", final[model.FieldEmployerName].Value)
}

func TestByPriorityEmptyPaystubValueFallsThrough(t *testing.T) {
	ps := model.FieldSet{
		model.FieldEmployerName: {Value: "", Confidence: conf(95)},
	}
	ev := model.FieldSet{
		model.FieldEmployerName: {Value: "Acme Co", Confidence: conf(60)},
	}

	final := ByPriority(ps, ev)

	assert.Equal(t, "Acme Co", final[model.FieldEmployerName].Value)
}

func TestByPriorityAbsenceIsNotAnError(t *testing.T) {
	final := ByPriority(model.FieldSet{}, model.FieldSet{})

	require.Len(t, final, len(model.CanonicalFields))
	for _, field := range model.CanonicalFields {
		fv, ok := final[field]
		require.True(t, ok, "field %s missing from record", field)
		assert.True(t, fv.Empty(), "field %s should be absent", field)
		assert.Nil(t, fv.Confidence, "field %s should carry no confidence", field)
	}
}

func TestByPriorityEVOnlyFieldsNeverReadPaystub(t *testing.T) {
	// A paystub set carrying an EV-only canonical field must not leak through.
	ps := model.FieldSet{
		model.FieldHireDate: {Value: "2020-01-01", Confidence: conf(99)},
	}

	final := ByPriority(ps, model.FieldSet{})

	assert.True(t, final[model.FieldHireDate].Empty())
}

func TestByPriorityDerivedPayFrequency(t *testing.T) {
	ps := model.FieldSet{
		model.FieldPayPeriodStartDate: {Value: "2024-01-01", Confidence: conf(90)},
		model.FieldPayPeriodEndDate:   {Value: "2024-01-14", Confidence: conf(90)},
	}

	final := ByPriority(ps, model.FieldSet{})

	assert.Equal(t, FreqBiWeekly, final[model.FieldPayFrequency].Value)
	assert.Equal(t, 100.0, *final[model.FieldPayFrequency].Confidence)
}

func TestByPriorityDerivationFailureLeavesFieldAbsent(t *testing.T) {
	final := ByPriority(model.FieldSet{}, model.FieldSet{})
	assert.True(t, final[model.FieldPayFrequency].Empty())
}

func TestByPriorityDeterministic(t *testing.T) {
	ps := model.FieldSet{
		model.FieldEmployeeName: {Value: "A", Confidence: conf(50)},
		model.FieldGrossAmount:  {Value: 3461.54, Confidence: conf(88)},
	}
	ev := model.FieldSet{
		model.FieldEmployeeName: {Value: "B", Confidence: conf(90)},
		model.FieldHireDate:     {Value: "2022-03-01", Confidence: conf(70)},
	}

	first := ByPriority(ps, ev)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ByPriority(ps, ev))
	}
}

func TestValidateRules(t *testing.T) {
	assert.NoError(t, ValidateRules())
}

func TestBuildUnifiedEndToEnd(t *testing.T) {
	paystubRaw := model.RawFieldSet{
		"EmployeeName":          {Value: "JOHN   SMITH", Confidence: conf(98)},
		"CurrentPeriodGrossPay": {Value: "$3, 461. 54", Confidence: conf(88)},
		"PayPeriodStartDate":    {Value: "01/01/2024", Confidence: conf(92)},
		"PayPeriodEndDate":      {Value: "01/14/2024", Confidence: conf(92)},
	}
	evRaw := model.RawFieldSet{
		"EmployeeName": {Value: "John Smith", Confidence: conf(99)},
		"CompanyName":  {Value: "Acme Co", Confidence: conf(85)},
		"HireDate":     {Value: "March 1, 2022", Confidence: conf(90)},
		"PayFrequency": {Value: "Monthly", Confidence: conf(99)},
	}

	result := BuildUnified(paystubRaw, evRaw)

	assert.Equal(t, StatusSuccess, result.Status)
	fields := result.ExtractedFields
	require.Len(t, fields, len(model.CanonicalFields))

	// Paystub wins the shared name despite lower confidence.
	assert.Equal(t, "JOHN SMITH", fields[model.FieldEmployeeName].Value)
	// EV fills what the paystub lacks.
	assert.Equal(t, "Acme Co", fields[model.FieldEmployerName].Value)
	assert.Equal(t, "2022-03-01", fields[model.FieldHireDate].Value)
	// OCR-damaged currency parses to the amount.
	assert.Equal(t, 3461.54, fields[model.FieldGrossAmount].Value)
	// Frequency is derived from the period dates; the EV extractor's own
	// "Monthly" guess is ignored.
	assert.Equal(t, FreqBiWeekly, fields[model.FieldPayFrequency].Value)
	// Nothing supplied these.
	assert.True(t, fields[model.FieldLossOfEmploymentDate].Empty())
	assert.True(t, fields[model.FieldEIN].Empty())
}

func TestBuildUnifiedNilSources(t *testing.T) {
	result := BuildUnified(nil, nil)

	assert.Equal(t, StatusSuccess, result.Status)
	require.Len(t, result.ExtractedFields, len(model.CanonicalFields))
	for _, field := range model.CanonicalFields {
		assert.True(t, result.ExtractedFields[field].Empty())
	}
}

func TestBuildUnifiedSingleSource(t *testing.T) {
	evRaw := model.RawFieldSet{
		"EmployeeName":      {Value: "Jane Doe", Confidence: conf(90)},
		"EmplyomentEndDate": {Value: "06/30/2024", Confidence: conf(85)},
	}

	result := BuildUnified(nil, evRaw)

	fields := result.ExtractedFields
	assert.Equal(t, "Jane Doe", fields[model.FieldEmployeeName].Value)
	assert.Equal(t, "2024-06-30", fields[model.FieldLossOfEmploymentDate].Value)
	assert.True(t, fields[model.FieldGrossAmount].Empty())
}
