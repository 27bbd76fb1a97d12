// Package parser recovers transaction records from loosely structured
// fatura page text. Itaú exports carry no table markup, so everything
// here is positional pattern matching plus a confidence filter.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
)

// Identity detector patterns. Itaú prints the cardholder and card number
// on their own lines before the transaction block; once seen, they apply
// to every following line on the page.
var (
	holderPattern = regexp.MustCompile(`^Titular\s+([A-Z\s]+)`)
	cardPattern   = regexp.MustCompile(`^Cart[aã]o\s+.*(\d{4})`)
)

// Transaction line patterns. Both run on every line, in order: Itaú mixes
// date-first and merchant-first layouts within one document, and a line
// can legitimately satisfy both. The resulting duplication is accepted
// rather than guessed away.
type patternSpec struct {
	re       *regexp.Regexp
	date     int // submatch index of dd/mm
	merchant int
	amount   int
}

var linePatterns = []patternSpec{
	// dd/mm MERCHANT 1.234,56
	{regexp.MustCompile(`(\d{2}/\d{2})\s+([A-Z][A-Z\s\.\*\-/]+?)\s+(\d+(?:,\d{2})?)`), 1, 2, 3},
	// MERCHANT dd/mm 1.234,56
	{regexp.MustCompile(`([A-Z][A-Z\s\.\*\-/]+?)\s+(\d{2}/\d{2})\s+(\d+(?:,\d{2})?)`), 2, 1, 3},
}

// Context carries the identity resolved from preceding lines on the page.
type Context struct {
	Holder    string
	CardLast4 string
}

// Resolved reports whether both identity fields were detected.
func (c Context) Resolved() bool {
	return c.Holder != "" && c.CardLast4 != ""
}

// Provenance tags every extracted row with its origin. Year fills in the
// missing year of the dd/mm dates on the page.
type Provenance struct {
	Filename    string
	PeriodLabel string
	Year        int
}

// OverridePolicy force-sets holder and card identity based on the source
// filename. It exists for issuers whose in-document identity lines are
// unreliable; it is a data-quality patch, not a structural rule, and can
// be swapped out or removed independently of the extraction itself.
type OverridePolicy func(filename string) (holder, card string, ok bool)

// ItauOverride pins statements whose filename names the Itaú export to
// the single cardholder that issuer belongs to.
func ItauOverride(filename string) (string, string, bool) {
	if strings.Contains(strings.ToLower(filename), "itau") {
		return "Jorge Leite", "Itaú", true
	}
	return "", "", false
}

// LineExtractor turns page-text lines into raw transaction rows.
type LineExtractor struct {
	// Override, when set, replaces detected identity by filename.
	// Defaults to ItauOverride in NewLineExtractor.
	Override OverridePolicy
}

// NewLineExtractor returns an extractor with the default override policy.
func NewLineExtractor() *LineExtractor {
	return &LineExtractor{Override: ItauOverride}
}

// DetectHolder matches a cardholder identity line and returns the
// title-cased name.
func DetectHolder(line string) (string, bool) {
	m := holderPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(name)), true
}

// DetectCard matches a card identity line and returns the last 4 digits.
func DetectCard(line string) (string, bool) {
	m := cardPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractLine runs every line pattern over one line in strict mode:
// without a fully resolved identity context no candidate is emitted, and
// callers must fall back to ExtractLineFallback for pages where the
// context never resolves. Candidates that fail validation are dropped
// silently.
func (e *LineExtractor) ExtractLine(line string, ctx Context, prov Provenance) []models.RawRow {
	if !ctx.Resolved() {
		return nil
	}
	return e.extract(line, ctx.Holder, ctx.CardLast4, prov)
}

// ExtractLineFallback is the identity-free mode: same patterns, but
// holder and card default to the unknown sentinel.
func (e *LineExtractor) ExtractLineFallback(line string, prov Provenance) []models.RawRow {
	return e.extract(line, models.Unknown, models.Unknown, prov)
}

func (e *LineExtractor) extract(line, holder, card string, prov Provenance) []models.RawRow {
	var rows []models.RawRow
	for _, spec := range linePatterns {
		for _, m := range spec.re.FindAllStringSubmatch(line, -1) {
			merchant := strings.TrimSpace(m[spec.merchant])
			amount := m[spec.amount]
			if !ValidCandidate(merchant, amount) {
				continue
			}
			rowHolder, rowCard := holder, card
			if e.Override != nil {
				if oh, oc, ok := e.Override(prov.Filename); ok {
					rowHolder, rowCard = oh, oc
				}
			}
			rows = append(rows, models.RawRow{
				Date:        fmt.Sprintf("%s/%d", m[spec.date], prov.Year),
				Merchant:    merchant,
				Holder:      rowHolder,
				Amount:      amount,
				Installment: models.NoInstallment,
				SourceFile:  prov.Filename,
				PeriodLabel: prov.PeriodLabel,
				CardID:      rowCard,
			})
		}
	}
	return rows
}

// ExtractPages runs the full extraction flow over a document: a strict
// pass that tracks identity context line by line, then, only when that
// pass produced nothing, a fallback pass over the whole document with
// sentinel identity.
func (e *LineExtractor) ExtractPages(pages [][]string, prov Provenance) []models.RawRow {
	var rows []models.RawRow
	var ctx Context

	for _, lines := range pages {
		for _, line := range lines {
			if holder, ok := DetectHolder(line); ok {
				ctx.Holder = holder
				continue
			}
			if card, ok := DetectCard(line); ok {
				ctx.CardLast4 = card
				continue
			}
			rows = append(rows, e.ExtractLine(line, ctx, prov)...)
		}
	}
	if len(rows) > 0 {
		return rows
	}

	for _, lines := range pages {
		for _, line := range lines {
			rows = append(rows, e.ExtractLineFallback(line, prov)...)
		}
	}
	return rows
}
