// Package extract pulls structured order fields out of free-form chat text.
// Every extractor is a pure function: absence of a match is a normal, silent
// outcome, never an error.
package extract

import (
	"math"
	"strconv"
	"strings"
)

// Fields is the subset of contact fields found in one piece of text.
type Fields struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// Empty reports whether no field was extracted.
func (f Fields) Empty() bool {
	return f.Name == "" && f.Phone == "" && f.Email == "" && f.Address == ""
}

// Contact runs the four contact-field extractors over text.
func Contact(text string) Fields {
	var f Fields
	f.Name, _ = Name(text)
	f.Phone, _ = Phone(text)
	f.Email, _ = Email(text)
	f.Address, _ = Address(text)
	return f
}

// Email returns the first syntactically valid email address in text.
func Email(text string) (string, bool) {
	match := emailRE.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// Phone returns the first run of 10-15 digits (allowing +, spaces, hyphens
// and parentheses) with the formatting characters stripped.
func Phone(text string) (string, bool) {
	for _, candidate := range phoneRE.FindAllString(text, -1) {
		digits := stripPhoneFormatting(candidate)
		n := len(strings.TrimPrefix(digits, "+"))
		if n >= 10 && n <= 15 {
			return digits, true
		}
	}
	return "", false
}

func stripPhoneFormatting(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Name returns a name only when it follows an explicit label ("name is",
// "name:"). Free-standing words are never guessed as a name.
func Name(text string) (string, bool) {
	for _, re := range nameREs {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			name := trimFieldValue(m[1])
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// Address tries an ordered list of matchers; the first match wins and later
// rules are not attempted.
func Address(text string) (string, bool) {
	for _, match := range addressMatchers {
		if addr, ok := match(text); ok {
			return addr, true
		}
	}
	return "", false
}

func matchLabeledAddress(text string) (string, bool) {
	for _, re := range labeledAddressREs {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if addr := trimFieldValue(m[1]); addr != "" {
				return addr, true
			}
		}
	}
	return "", false
}

func matchStreetAddress(text string) (string, bool) {
	if m := streetAddressRE.FindStringSubmatch(text); len(m) > 1 {
		if addr := trimFieldValue(m[1]); addr != "" {
			return addr, true
		}
	}
	return "", false
}

func matchLocatedAt(text string) (string, bool) {
	if m := locatedAtRE.FindStringSubmatch(text); len(m) > 1 {
		if addr := trimFieldValue(m[1]); addr != "" {
			return addr, true
		}
	}
	return "", false
}

// maxAmountDigits bounds how many integer digits an extracted amount may
// carry once comma separators are stripped, so phone numbers and large ids
// are never mistaken for money.
const maxAmountDigits = 7

// Amount returns a monetary amount from text. It prefers an explicit
// "total is"/"amount is" label and otherwise accepts only a
// currency-prefixed (₦ or N) number. Bare digit runs are never accepted.
func Amount(text string) (float64, bool) {
	for _, match := range amountMatchers {
		if amount, ok := match(text); ok {
			return amount, true
		}
	}
	return 0, false
}

func matchLabeledAmount(text string) (float64, bool) {
	for _, m := range labeledAmountRE.FindAllStringSubmatch(text, -1) {
		if amount, ok := parseAmount(m[1]); ok {
			return amount, true
		}
	}
	return 0, false
}

func matchCurrencyAmount(text string) (float64, bool) {
	for _, m := range currencyAmountRE.FindAllStringSubmatch(text, -1) {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		if amount, ok := parseAmount(digits); ok {
			return amount, true
		}
	}
	return 0, false
}

func parseAmount(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	whole := cleaned
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		whole = cleaned[:i]
	}
	if len(whole) == 0 || len(whole) > maxAmountDigits {
		return 0, false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount <= 0 || math.IsInf(amount, 0) {
		return 0, false
	}
	return amount, true
}

func trimFieldValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), ".,!?;:")
}
