// Package normalize cleans raw extractor field values into canonical form.
// Every helper here is pure and total: bad input yields an absent result,
// never a panic or an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	moneyJunkRe = regexp.MustCompile(`[^\d.,-]`)
	numberRe    = regexp.MustCompile(`-?\d+(\.\d+)?`)
	digitRunRe  = regexp.MustCompile(`\d{1,4}`)
)

// SquashSpaces collapses runs of whitespace (including newlines) into single
// spaces and trims. Returns "" when nothing remains.
func SquashSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// moneyRepairer rejoins OCR-split thousands and decimal separators, e.g.
// "3, 461. 54" becomes "3,461.54". It does not insert separators it cannot
// infer from the input.
var moneyRepairer = strings.NewReplacer(
	", ", ",",
	" .", ".",
	". ", ".",
	" ,", ",",
	"$ ", "$",
)

// CleanMoney fixes common OCR artifacts in currency strings:
//
//	"$3, 461. 54" -> "$3,461.54"
//	"$ 6500"      -> "$6500"
func CleanMoney(s string) string {
	s = SquashSpaces(s)
	if s == "" {
		return ""
	}
	return moneyRepairer.Replace(s)
}

// MoneyToFloat extracts a numeric amount from a currency string. Every
// character that is not a digit, period, comma, or minus sign is stripped and
// commas are treated as thousands separators. Returns false when no digits
// remain or parsing fails.
func MoneyToFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	digits := moneyJunkRe.ReplaceAllString(s, "")
	if digits == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ToFloat parses a number-like value to a float. Numeric inputs pass through;
// strings are trimmed and parsed, falling back to the first embedded signed
// decimal literal when the string mixes words and numbers.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := SquashSpaces(n)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		if m := numberRe.FindString(s); m != "" {
			f, err := strconv.ParseFloat(m, 64)
			return f, err == nil
		}
		return 0, false
	default:
		return 0, false
	}
}

// dateLayouts are tried in order. Unpadded layouts accept both "3/5/2024"
// and "03/05/2024".
var dateLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"2006-1-2",
	"1/2/06",
	"1-2-06",
	"2-Jan-2006",
	"2 Jan 2006",
}

// monthNames maps lowercase English month names and abbreviations to their
// month number, for the digit-fallback path.
var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// ParseDate parses common date formats into "YYYY-MM-DD". Inputs shorter than
// six characters are rejected outright to guard against bare day-of-month OCR
// noise. When no fixed layout matches, 1-4 digit numeric runs (and English
// month names, which contribute their month number) are collected in order and
// the first three are read as month, day, year. A 2-digit year means
// 2000+year. Calendar-invalid dates yield false.
func ParseDate(s string) (string, bool) {
	txt := SquashSpaces(s)
	if len(txt) < 6 {
		return "", false
	}

	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, txt); err == nil {
			return dt.Format("2006-01-02"), true
		}
	}

	nums := extractDateRuns(txt)
	if len(nums) < 3 {
		return "", false
	}
	month, day := nums[0].value, nums[1].value
	year := nums[2].value
	if nums[2].width != 4 {
		year = 2000 + year
	}
	return buildDate(year, month, day)
}

type dateRun struct {
	value int
	width int
}

// extractDateRuns collects numeric runs in their original order. A token that
// is an English month name counts as a run with its month number, so
// "March 1, 2022" yields 3, 1, 2022.
func extractDateRuns(txt string) []dateRun {
	var runs []dateRun
	for _, tok := range strings.FieldsFunc(txt, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.'
	}) {
		if m, ok := monthNames[strings.ToLower(tok)]; ok {
			runs = append(runs, dateRun{value: m, width: 2})
			continue
		}
		for _, d := range digitRunRe.FindAllString(tok, -1) {
			n, err := strconv.Atoi(d)
			if err != nil {
				continue
			}
			runs = append(runs, dateRun{value: n, width: len(d)})
		}
	}
	return runs
}

// buildDate validates the components against the real calendar; month 13 or
// day 32 yield false rather than normalizing into the next period.
func buildDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return "", false
	}
	dt := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if dt.Year() != year || dt.Month() != time.Month(month) || dt.Day() != day {
		return "", false
	}
	return dt.Format("2006-01-02"), true
}

// StripPrefix removes the first matching label prefix (case-insensitive) plus
// any immediately following whitespace. Unmatched input is returned with only
// its leading whitespace trimmed.
func StripPrefix(s string, prefixes []string) string {
	txt := strings.TrimLeft(s, " \t\r\n")
	lowered := strings.ToLower(txt)
	for _, p := range prefixes {
		if strings.HasPrefix(lowered, strings.ToLower(p)) {
			return strings.TrimLeft(txt[len(p):], " \t\r\n")
		}
	}
	return txt
}

// TitleCaseJob title-cases a short-form job title. A token that is entirely
// uppercase and at most four characters long is kept as-is, treating it as an
// acronym like "CEO" or "CFO".
func TitleCaseJob(s string) string {
	parts := strings.Fields(s)
	for i, w := range parts {
		if isAcronym(w) {
			continue
		}
		parts[i] = capitalize(w)
	}
	return strings.Join(parts, " ")
}

func isAcronym(w string) bool {
	runes := []rune(w)
	if len(runes) > 4 {
		return false
	}
	hasUpper := false
	for _, r := range runes {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasUpper = true
		}
	}
	return hasUpper
}

func capitalize(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return w
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
