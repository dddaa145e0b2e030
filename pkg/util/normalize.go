package util

import "strings"

// Normalization helpers for submitted signup fields. All of these are
// idempotent: applying them twice yields the same result as once.

// NormalizePostalCode strips all whitespace and uppercases,
// e.g. "4101 ab" -> "4101AB".
func NormalizePostalCode(postalCode string) string {
	return strings.ToUpper(stripWhitespace(postalCode))
}

// NormalizePhone strips spaces, hyphens and parentheses and rewrites a
// leading +31 or 0031 country prefix to the national leading 0,
// e.g. "+31 6 1234-5678" -> "0612345678".
func NormalizePhone(phone string) string {
	cleaned := stripPhoneSeparators(phone)
	if strings.HasPrefix(cleaned, "+31") {
		cleaned = "0" + cleaned[3:]
	} else if strings.HasPrefix(cleaned, "0031") {
		cleaned = "0" + cleaned[4:]
	}
	return cleaned
}

// NormalizeIBAN strips whitespace and uppercases,
// e.g. "NL91 abna 0417 1643 00" -> "NL91ABNA0417164300".
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(stripWhitespace(iban))
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

func stripPhoneSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, s)
}
