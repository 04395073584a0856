// Package core provides the expense domain: money extraction from
// Indonesian free text, transaction construction, and monthly aggregation.
//
// This file contains the amount extractor. It recognizes the numeric
// idioms people actually type in chat messages ("50rb", "1.5juta",
// "15.000.000", "200000") and returns the amount in whole rupiah together
// with the message text left over once the amount is removed.
package core

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Numeral with a multiplier word, attached or space-separated:
	// "50rb", "50 ribu", "1.5juta", "2jt", "30k".
	suffixAmountRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)[ \t]*(juta|jt|ribu|rb|k)\b`)

	// Any run of digits and separators; candidates for the lower tiers.
	numberSpanRe = regexp.MustCompile(`\d[\d.,]*\d|\d`)

	// Thousand-separated number: groups of exactly 3 digits after each
	// separator ("15.000.000", "25,000"). Anything else is not money.
	separatedRe = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)

	bareDigitsRe = regexp.MustCompile(`^\d+$`)
)

// ExtractAmount finds the leftmost monetary amount in text and returns it
// together with the residual description. Recognition runs most specific
// first: multiplier suffixes, then thousand-separated numbers, then bare
// numerals of 4+ digits. Shorter bare numerals are ignored so dates and
// quantities do not become expenses. When nothing matches, found is false
// and residual is the original text untouched.
func ExtractAmount(text string) (amount Money, residual string, found bool) {
	if loc := suffixAmountRe.FindStringSubmatchIndex(text); loc != nil {
		numeral := text[loc[2]:loc[3]]
		unit := strings.ToLower(text[loc[4]:loc[5]])
		multiplier := int64(1_000)
		if unit == "juta" || unit == "jt" {
			multiplier = 1_000_000
		}
		if v, ok := applyMultiplier(numeral, multiplier); ok {
			return Money(v), residualText(text, loc[0], loc[1]), true
		}
	}

	for _, tier := range []func(string) bool{
		func(s string) bool { return separatedRe.MatchString(s) },
		func(s string) bool { return bareDigitsRe.MatchString(s) && len(s) >= 4 },
	} {
		for _, loc := range numberSpanRe.FindAllStringIndex(text, -1) {
			span := text[loc[0]:loc[1]]
			if !tier(span) {
				continue
			}
			digits := strings.NewReplacer(".", "", ",", "").Replace(span)
			v, err := strconv.ParseInt(digits, 10, 64)
			if err != nil || v <= 0 {
				continue
			}
			return Money(v), residualText(text, loc[0], loc[1]), true
		}
	}

	return 0, text, false
}

// applyMultiplier converts a suffix numeral like "1.5" or "15.000" into
// rupiah. A separator followed by exactly 3 digits is a thousands
// separator and removed; any other separator is a decimal point. The
// result is rounded half-up so no fractional rupiah survives.
func applyMultiplier(numeral string, multiplier int64) (int64, bool) {
	// "15.000rb" means 15000 ribu, not 15 point zero.
	cleaned := strings.ReplaceAll(numeral, ",", ".")
	if i := strings.IndexByte(cleaned, '.'); i >= 0 && len(cleaned)-i-1 == 3 {
		cleaned = cleaned[:i] + cleaned[i+1:]
	}

	intPart := cleaned
	fracPart := ""
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		intPart, fracPart = cleaned[:i], cleaned[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	total := iv * multiplier
	if fracPart != "" {
		fv, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, false
		}
		denom := int64(1)
		for range fracPart {
			denom *= 10
		}
		// Half-up rounding on the fractional contribution.
		total += (fv*multiplier + denom/2) / denom
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}

// residualText removes the matched span and collapses the whitespace of
// what is left.
func residualText(text string, start, end int) string {
	joined := strings.TrimSpace(text[:start]) + " " + strings.TrimSpace(text[end:])
	return strings.Join(strings.Fields(joined), " ")
}

// FormatRupiah renders an amount as "Rp 50.000" with Indonesian thousand
// separators. Negative amounts keep their sign, which matters for
// overspent balances.
func FormatRupiah(m Money) string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + sign + b.String()
}
