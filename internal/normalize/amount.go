// Package normalize repairs free-form Brazilian currency strings into
// canonical decimals. Fatura exports mix comma decimals, dot thousands
// separators, currency symbols, and whatever control characters the
// issuer's export pipeline leaked into the cell.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	digitPattern   = regexp.MustCompile(`\d`)
	nonAmountChars = regexp.MustCompile(`[^0-9.,-]`)
)

// stray characters seen in real Valor cells: line breaks, tabs, prime and
// double-prime quotes, non-breaking space.
var strayReplacer = strings.NewReplacer(
	"\n", "",
	"\r", "",
	"\t", "",
	"′", "",
	"″", "",
	" ", " ",
)

var currencyReplacer = strings.NewReplacer(
	"R$", "",
	"R", "",
	"$", "",
)

// Amount rewrites a raw amount string into a canonical decimal string
// ("1.374,50" -> "1374.50"). The steps are order-sensitive:
//
//  1. strip stray control/quote characters and currency symbols, trim;
//  2. no digit left -> "0";
//  3. drop everything but digits, '.', ',' and '-';
//  4. set aside a leading minus;
//  5. disambiguate separators: a comma is always the decimal separator
//     (all dots are thousands separators); with several dots the last one
//     is decimal; a single dot followed by exactly 3 digits is read as a
//     thousands separator, otherwise as the decimal point;
//  6. restore the minus.
//
// The single-dot rule is a heuristic and misreads genuine decimals with
// exactly three fractional digits; downstream aggregates were tuned
// against this behavior, so it stays.
func Amount(raw string) string {
	v := strings.TrimSpace(raw)
	v = strayReplacer.Replace(v)
	v = currencyReplacer.Replace(v)
	v = strings.TrimSpace(v)

	if v == "" || !digitPattern.MatchString(v) {
		return "0"
	}

	v = nonAmountChars.ReplaceAllString(v, "")

	negative := strings.HasPrefix(v, "-")
	if negative {
		v = v[1:]
	}

	switch {
	case strings.Contains(v, ","):
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
		// a second comma would be malformed input; keep only digits after it
		v = strings.ReplaceAll(v, ",", "")
	case strings.Count(v, ".") > 1:
		last := strings.LastIndex(v, ".")
		v = strings.ReplaceAll(v[:last], ".", "") + "." + v[last+1:]
	case strings.Count(v, ".") == 1:
		if parts := strings.SplitN(v, ".", 2); len(parts[1]) == 3 {
			v = parts[0] + parts[1]
		}
	}

	if negative {
		v = "-" + v
	}
	return v
}

// AmountFloat normalizes raw and parses the result. A parse failure after
// normalization means malformed upstream data and is returned to the
// caller as a hard error.
func AmountFloat(raw string) (float64, error) {
	return strconv.ParseFloat(Amount(raw), 64)
}

// CleanCell strips the stray characters the normalizer removes, without
// touching separators. The tabular loader applies it to amount cells
// right after decoding so the raw rows carry printable text.
func CleanCell(s string) string {
	return strings.TrimSpace(strayReplacer.Replace(strings.TrimSpace(s)))
}

// Suspicious reports whether a normalized value looks like a separator
// misread: a positive result below one real almost always means the
// heuristic reconstructed the wrong magnitude. Advisory only.
func Suspicious(raw string, normalized float64) bool {
	return normalized > 0 && normalized < 1 && Amount(raw) != strings.TrimSpace(raw)
}
