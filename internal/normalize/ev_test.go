package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/payverify-cli/internal/model"
)

func TestEVMapsAndCleans(t *testing.T) {
	raw := model.RawFieldSet{
		"EmployeeName":      {Value: "Jane  Doe", Confidence: conf(92)},
		"CompanyName":       {Value: "Acme Co", Confidence: conf(85)},
		"Company Address":   {Value: "123 Main St\nSpringfield", Confidence: conf(77)},
		"HireDate":          {Value: "March 1, 2022", Confidence: conf(90)},
		"EmplyomentEndDate": {Value: "06/30/2024", Confidence: conf(88)},
		"FinalPayCheckDate": {Value: "7/5/2024", Confidence: conf(91)},
	}

	out, unmapped := EV(raw)
	require.Empty(t, unmapped)

	assert.Equal(t, "Jane Doe", out[model.FieldEmployeeName].Value)
	assert.Equal(t, "Acme Co", out[model.FieldEmployerName].Value)
	assert.Equal(t, "123 Main St Springfield", out[model.FieldEmployerAddress].Value)
	assert.Equal(t, "2022-03-01", out[model.FieldHireDate].Value)
	assert.Equal(t, "2024-06-30", out[model.FieldLossOfEmploymentDate].Value)
	assert.Equal(t, "2024-07-05", out[model.FieldDateOfLastPaycheck].Value)
}

func TestEVReasonPrefixStripped(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected any
	}{
		{"colon form", "Reason: position eliminated", "position eliminated"},
		{"dash form", "Reason - quit", "quit"},
		{"no prefix", "voluntary resignation", "voluntary resignation"},
		{"prefix only", "Reason:", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := EV(model.RawFieldSet{
				"EmploymentEndDateReason": {Value: tt.in, Confidence: conf(80)},
			})
			assert.Equal(t, tt.expected, out[model.FieldLossOfEmploymentReason].Value)
		})
	}
}

func TestEVIgnoredKeys(t *testing.T) {
	// These keys, misspellings included, come straight from the custom model
	// and are deliberately excluded from the canonical schema.
	raw := model.RawFieldSet{
		"FirstPayCheckDate":      {Value: "1/1/2022"},
		"PayFrequency":           {Value: "Weekly"},
		"AvgPay":                 {Value: "$1,200"},
		"AvgPayFrequency":        {Value: "Bi-Weekly"},
		"EmplymentType":          {Value: "Full Time"},
		"FinalPayCheckAmt":       {Value: "$900"},
		"FinalFourPayCheckTable": {Value: "..."},
	}

	out, unmapped := EV(raw)

	assert.Empty(t, out)
	assert.Empty(t, unmapped)
}

func TestEVEINValidation(t *testing.T) {
	out, _ := EV(model.RawFieldSet{
		"EIN": {Value: "98-7654", Confidence: conf(83)},
	})
	assert.Equal(t, "987654", out[model.FieldEIN].Value)

	out, _ = EV(model.RawFieldSet{
		"EIN": {Value: "987", Confidence: conf(83)},
	})
	assert.True(t, out[model.FieldEIN].Empty())
}

func TestEVUnmappedKeys(t *testing.T) {
	_, unmapped := EV(model.RawFieldSet{
		"BrandNewKey": {Value: "x"},
	})
	assert.Equal(t, []string{"BrandNewKey"}, unmapped)
}

func TestEVNilConfidencePassesThrough(t *testing.T) {
	out, _ := EV(model.RawFieldSet{
		"EmployeeName": {Value: "Jane Doe"},
	})
	got := out[model.FieldEmployeeName]
	assert.Equal(t, "Jane Doe", got.Value)
	assert.Nil(t, got.Confidence)
}
