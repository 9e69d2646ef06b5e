package extract

import "regexp"

// ---------- package-level compiled regexes ----------

var (
	emailRE = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)

	phoneRE = regexp.MustCompile(`\+?\d[\d\s\-()]{8,18}\d`)

	nameREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bname\s+is\s+([A-Za-z][A-Za-z\s.'\-]*?)(?:[,\n]|$)`),
		regexp.MustCompile(`(?i)\bname\s*[:\-]\s*([A-Za-z][A-Za-z\s.'\-]*?)(?:[,\n]|$)`),
	}

	labeledAddressREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\baddress\s+(?:is|was)\s+([^\n,]+?)(?:[,\n]|$)`),
		regexp.MustCompile(`(?i)\baddress\s*[:\-]?\s+([^\n,]+?)(?:[,\n]|$)`),
	}

	streetAddressRE = regexp.MustCompile(
		`(?i)\b(\d+\s+[A-Za-z][A-Za-z\s]*?(?:street|st|road|rd|avenue|ave|drive|dr|lane|ln|boulevard|blvd|way|circle|ct)\b[^\n,]*)`)

	locatedAtRE = regexp.MustCompile(
		`(?i)\b(?:i\s+live\s+at|my\s+address\s+is|located\s+at)\s*[:\-]?\s*([^\n,]+?)(?:[,\n]|$)`)

	labeledAmountRE = regexp.MustCompile(
		`(?i)\b(?:total|amount)(?:\s+(?:is|comes\s+to))?\s*[:\-]?\s*[₦N]?\s*(\d[\d,]*(?:\.\d{1,2})?)`)

	// ₦ may be followed by a space; a bare "N" prefix must hug the digits.
	currencyAmountRE = regexp.MustCompile(
		`₦\s*(\d[\d,]*(?:\.\d{1,2})?)|\bN(\d[\d,]*(?:\.\d{1,2})?)`)
)

// ---------- ordered matcher lists, first match wins ----------

var addressMatchers = []func(string) (string, bool){
	matchLabeledAddress,
	matchStreetAddress,
	matchLocatedAt,
}

var amountMatchers = []func(string) (float64, bool){
	matchLabeledAmount,
	matchCurrencyAmount,
}
