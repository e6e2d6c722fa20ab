package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquashSpaces(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"collapses runs", "a   b\t c", "a b c"},
		{"newlines", "line1\nline2\r\nline3", "line1 line2 line3"},
		{"trims", "  padded  ", "padded"},
		{"whitespace only", " \n\t ", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SquashSpaces(tt.in))
		})
	}
}

func TestCleanMoney(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"split thousands and cents", "$3, 461. 54", "$3,461.54"},
		{"dollar sign gap", "$ 6500", "$6500"},
		{"space before comma", "1 ,234", "1,234"},
		{"space before period", "12 .50", "12.50"},
		{"already clean", "$1,234.56", "$1,234.56"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanMoney(tt.in))
		})
	}
}

func TestCleanMoneyIdempotent(t *testing.T) {
	inputs := []string{"$3, 461. 54", "$ 6500", "$1,234.56", "plain text"}
	for _, in := range inputs {
		once := CleanMoney(in)
		assert.Equal(t, once, CleanMoney(once), "input %q", in)
	}
}

func TestMoneyToFloat(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected float64
		ok       bool
	}{
		{"currency with separators", "$3,461.54", 3461.54, true},
		{"bare number", "6500", 6500, true},
		{"negative", "-42.10", -42.10, true},
		{"trailing text", "1200USD", 1200, true},
		{"no digits", "pending", 0, false},
		{"empty", "", 0, false},
		{"multiple decimal points", "1.2.3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MoneyToFloat(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 0.001)
			}
		})
	}
}

func TestMoneyToFloatAfterOCRRepair(t *testing.T) {
	// The damaged and clean forms must parse to the same amount.
	damaged, ok := MoneyToFloat(CleanMoney("$3, 461. 54"))
	assert.True(t, ok)
	clean, ok := MoneyToFloat("$3,461.54")
	assert.True(t, ok)
	assert.Equal(t, clean, damaged)
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected float64
		ok       bool
	}{
		{"float64", 42.5, 42.5, true},
		{"int", 40, 40, true},
		{"numeric string", "37.5", 37.5, true},
		{"padded string", "  80  ", 80, true},
		{"embedded number", "40 hours", 40, true},
		{"nil", nil, 0, false},
		{"empty string", "", 0, false},
		{"no number", "n/a", 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 0.001)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
		ok       bool
	}{
		{"slash padded", "03/05/2024", "2024-03-05", true},
		{"slash unpadded", "3/5/2024", "2024-03-05", true},
		{"dashes", "3-5-2024", "2024-03-05", true},
		{"iso", "2024-03-05", "2024-03-05", true},
		{"two digit year", "3/5/24", "2024-03-05", true},
		{"day month year", "5 Mar 2024", "2024-03-05", true},
		{"dashed month name", "15-Mar-2024", "2024-03-15", true},
		{"month name fallback", "March 1, 2022", "2022-03-01", true},
		{"label prefix fallback", "Pay Date: 03/15/2024", "2024-03-15", true},
		{"two digit year fallback", "on 3 14 22", "2022-03-14", true},
		{"too short", "11", "", false},
		{"bare day", "13th", "", false},
		{"month out of range", "15/1/2024", "", false},
		{"calendar invalid", "2/30/2024", "", false},
		{"not a date", "unknown", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseDateLeapYear(t *testing.T) {
	got, ok := ParseDate("2/29/2024")
	assert.True(t, ok)
	assert.Equal(t, "2024-02-29", got)

	_, ok = ParseDate("2/29/2023")
	assert.False(t, ok)
}

func TestStripPrefix(t *testing.T) {
	prefixes := []string{"Reason:", "Reason -"}

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"colon form", "Reason: laid off", "laid off"},
		{"dash form", "Reason - quit", "quit"},
		{"case insensitive", "reason: resigned", "resigned"},
		{"no prefix", "  voluntary exit", "voluntary exit"},
		{"prefix only", "Reason:", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripPrefix(tt.in, prefixes))
		})
	}
}

func TestTitleCaseJob(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercase words", "software engineer", "Software Engineer"},
		{"all caps word", "SENIOR driver", "Senior Driver"},
		{"acronym preserved", "CEO", "CEO"},
		{"acronym in phrase", "VP of sales", "VP Of Sales"},
		{"long uppercase is not acronym", "MAINTENANCE", "Maintenance"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleCaseJob(tt.in))
		})
	}
}

func TestValidEIN(t *testing.T) {
	assert.True(t, ValidEIN("123456"))
	assert.False(t, ValidEIN("12345"))
	assert.False(t, ValidEIN("1234567"))
	assert.False(t, ValidEIN("12-3456"))
	assert.False(t, ValidEIN(""))
}

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "123456", ExtractDigits("12-34 56"))
	assert.Equal(t, "", ExtractDigits("none"))
}
