package kernel

import "strings"

// nationalDigits is the length of a national significant number for the shop's
// market. Phones are compared on their trailing digits so that +20 10..., 0020 10...
// and 010... all normalize to the same value.
const nationalDigits = 10

// NormalizePhone strips everything but digits and keeps the trailing national
// significant number. Inputs shorter than that are returned as bare digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > nationalDigits {
		return digits[len(digits)-nationalDigits:]
	}
	return digits
}

// SamePhone reports whether two raw phone numbers normalize to the same non-empty value.
func SamePhone(a, b string) bool {
	na := NormalizePhone(a)
	return na != "" && na == NormalizePhone(b)
}
