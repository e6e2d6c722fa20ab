package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/payverify-cli/internal/model"
)

func conf(c float64) *float64 { return &c }

func TestPaystubMapsAndCleans(t *testing.T) {
	raw := model.RawFieldSet{
		"EmployeeName":          {Value: "  JOHN   SMITH ", Confidence: conf(98.1)},
		"EmployerName":          {Value: "Acme Co", Confidence: conf(95)},
		"CurrentPeriodGrossPay": {Value: "$3, 461. 54", Confidence: conf(88)},
		"PayDate":               {Value: "03/15/2024", Confidence: conf(99)},
		"TotalHoursWorked":      {Value: "80", Confidence: conf(70)},
		"JobTitle":              {Value: "maintenance TECHNICIAN", Confidence: conf(90)},
	}

	out, unmapped := Paystub(raw)
	require.Empty(t, unmapped)

	assert.Equal(t, "JOHN SMITH", out[model.FieldEmployeeName].Value)
	assert.Equal(t, "Acme Co", out[model.FieldEmployerName].Value)
	assert.Equal(t, 3461.54, out[model.FieldGrossAmount].Value)
	assert.Equal(t, "2024-03-15", out[model.FieldPayDate].Value)
	assert.Equal(t, 80.0, out[model.FieldTotalHours].Value)
	assert.Equal(t, "Maintenance Technician", out[model.FieldJobTitle].Value)

	// Confidence passes through untouched.
	assert.Equal(t, 98.1, *out[model.FieldEmployeeName].Confidence)
	assert.Equal(t, 88.0, *out[model.FieldGrossAmount].Confidence)
}

func TestPaystubIgnoredKeys(t *testing.T) {
	raw := model.RawFieldSet{
		"AveragePayRate":     {Value: "21.50", Confidence: conf(80)},
		"YearToDateGrossPay": {Value: "$42,000", Confidence: conf(92)},
	}

	out, unmapped := Paystub(raw)

	assert.Empty(t, out)
	assert.Empty(t, unmapped, "ignored keys are not unmapped keys")
}

func TestPaystubUnmappedKeysSorted(t *testing.T) {
	raw := model.RawFieldSet{
		"ZNewField":    {Value: "x"},
		"AOtherField":  {Value: "y"},
		"EmployeeName": {Value: "Jane Doe"},
	}

	out, unmapped := Paystub(raw)

	assert.Equal(t, []string{"AOtherField", "ZNewField"}, unmapped)
	assert.Equal(t, "Jane Doe", out[model.FieldEmployeeName].Value)
}

func TestPaystubEINValidation(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected any
	}{
		{"six digits", "123456", "123456"},
		{"punctuation stripped", "12-3456", "123456"},
		{"too short", "12345", nil},
		{"too long", "1234567", nil},
		{"non numeric", "none", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := Paystub(model.RawFieldSet{
				"EIN": {Value: tt.in, Confidence: conf(90)},
			})
			got := out[model.FieldEIN]
			assert.Equal(t, tt.expected, got.Value)
			// Confidence survives even when the value is rejected.
			assert.Equal(t, 90.0, *got.Confidence)
		})
	}
}

func TestPaystubUnparseableValuesBecomeAbsent(t *testing.T) {
	raw := model.RawFieldSet{
		"PayDate":               {Value: "11", Confidence: conf(60)},
		"CurrentPeriodGrossPay": {Value: "pending", Confidence: conf(55)},
		"EmployeeName":          {Value: nil, Confidence: conf(40)},
	}

	out, _ := Paystub(raw)

	assert.True(t, out[model.FieldPayDate].Empty())
	assert.True(t, out[model.FieldGrossAmount].Empty())
	assert.True(t, out[model.FieldEmployeeName].Empty())
}

func TestPaystubNilRawSet(t *testing.T) {
	out, unmapped := Paystub(nil)
	assert.Empty(t, out)
	assert.Empty(t, unmapped)
}
