package normalize

import "regexp"

var einRe = regexp.MustCompile(`^\d{6}$`)

// ValidEIN reports whether value is exactly six digits.
func ValidEIN(value string) bool {
	return einRe.MatchString(value)
}

// ExtractDigits returns only the digit characters of s.
func ExtractDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
