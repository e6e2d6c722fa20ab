package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/payverify-cli/pkg/docintel"
)

func TestEVExtract(t *testing.T) {
	di := &fakeDocIntel{results: map[string]*docintel.AnalyzeResult{
		"EmploymentVerificationExtractor4": {
			Fields: map[string]docintel.Field{
				"CompanyName":       {Content: "Acme Co", Confidence: 0.85},
				"EmplyomentEndDate": {Content: "06/30/2024", Confidence: 0.9},
			},
		},
	}}

	ex := NewEV(di, diConfig())
	raw, err := ex.Extract(context.Background(), []byte("doc"))
	require.NoError(t, err)

	assert.Equal(t, "Acme Co", raw["CompanyName"].Value)
	assert.Equal(t, 85.0, *raw["CompanyName"].Confidence)
	assert.Equal(t, []string{"EmploymentVerificationExtractor4"}, di.calls)
}

func TestEVExtractZeroConfidenceStaysNil(t *testing.T) {
	di := &fakeDocIntel{results: map[string]*docintel.AnalyzeResult{
		"EmploymentVerificationExtractor4": {
			Fields: map[string]docintel.Field{
				"EmployeeName": {Content: "Jane Doe", Confidence: 0},
			},
		},
	}}

	ex := NewEV(di, diConfig())
	raw, err := ex.Extract(context.Background(), []byte("doc"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", raw["EmployeeName"].Value)
	assert.Nil(t, raw["EmployeeName"].Confidence)
}

func TestEVExtractDegradesOnFailure(t *testing.T) {
	di := &fakeDocIntel{errs: map[string]error{
		"EmploymentVerificationExtractor4": errors.New("boom"),
	}}

	ex := NewEV(di, diConfig())
	raw, err := ex.Extract(context.Background(), []byte("doc"))

	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestEVExtractAbortsOnCancelledContext(t *testing.T) {
	di := &fakeDocIntel{errs: map[string]error{
		"EmploymentVerificationExtractor4": context.Canceled,
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := NewEV(di, diConfig())
	_, err := ex.Extract(ctx, []byte("doc"))
	assert.ErrorIs(t, err, context.Canceled)
}
