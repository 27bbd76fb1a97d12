// Package loader reads tabular fatura exports. Issuers disagree on text
// encoding and field delimiter, so loading is a cascade of candidate
// decodings where the first successful parse wins.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
	"github.com/ujorgeleite/fatura-ledger/internal/normalize"
)

// Candidate encodings, tried in order. UTF-8 first; the two single-byte
// Western European maps cover every legacy export seen so far.
var encodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-8", unicode.UTF8},
	{"latin1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
}

// Columns that may carry the merchant/description text, in lookup order.
var descriptionColumns = []string{
	"Descrição", "Estabelecimento", "Descricao", "Local", "Local da Compra",
}

// billPaymentPhrase marks the cardholder's own invoice payment on XP
// exports. Those rows are not spending and are dropped.
const billPaymentPhrase = "pagamento de fatura"

// bom is the UTF-8 byte order mark some exports prepend to the header.
const bom = "\ufeff"

var errNoUsableHeader = errors.New("no usable header row")

// LoadCSV parses one tabular statement file into raw rows tagged with the
// file's provenance. It first tries every encoding with the fixed ';'
// delimiter, then, only if all of those fail, retries with a delimiter
// sniffed from the first line. Failure of every combination is returned
// to the caller, which skips the file with a warning.
func LoadCSV(sf models.StatementFile) ([]models.RawRow, error) {
	data, err := os.ReadFile(sf.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sf.Path, err)
	}

	var lastErr error
	for _, delimiter := range []rune{';', 0} {
		for _, cand := range encodings {
			text, err := decode(data, cand.enc)
			if err != nil {
				lastErr = err
				continue
			}
			sep := delimiter
			if sep == 0 {
				sep = sniffDelimiter(text)
			}
			rows, err := parse(text, sep, sf)
			if err != nil {
				lastErr = fmt.Errorf("%s/%q: %w", cand.name, sep, err)
				continue
			}
			return rows, nil
		}
	}
	return nil, fmt.Errorf("parse %s: %w", sf.Path, lastErr)
}

func decode(data []byte, enc encoding.Encoding) (string, error) {
	if enc == unicode.UTF8 {
		// strict: garbage bytes must fall through to the single-byte maps
		if !utf8.Valid(data) {
			return "", errors.New("invalid utf-8")
		}
		return string(data), nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// sniffDelimiter picks the most frequent of ';', ',' and tab on the first
// non-empty line, defaulting to ','.
func sniffDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		best, bestCount := ',', 0
		for _, c := range []rune{';', ',', '\t'} {
			if n := strings.Count(line, string(c)); n > bestCount {
				best, bestCount = c, n
			}
		}
		return best
	}
	return ','
}

func parse(text string, sep rune, sf models.StatementFile) ([]models.RawRow, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, bom)))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, errNoUsableHeader
	}

	cols := indexHeader(records[0])
	//"Valor" plus some description column is the minimum usable shape; a
	// header without them means we parsed with the wrong delimiter.
	if cols.amount < 0 || cols.merchant < 0 {
		return nil, errNoUsableHeader
	}

	filename := filepath.Base(sf.Path)
	dropBillPayments := strings.Contains(strings.ToLower(filename), "xp")

	var rows []models.RawRow
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		merchant := field(rec, cols.merchant)
		if dropBillPayments && strings.Contains(strings.ToLower(merchant), billPaymentPhrase) {
			continue
		}
		row := models.RawRow{
			Date:        field(rec, cols.date),
			Merchant:    merchant,
			Holder:      field(rec, cols.holder),
			Amount:      normalize.CleanCell(field(rec, cols.amount)),
			Installment: field(rec, cols.installment),
			SourceFile:  filename,
			PeriodLabel: sf.PeriodLabel,
			CardID:      sf.CardID,
		}
		if row.Holder == "" {
			row.Holder = models.Unknown
		}
		if row.Installment == "" {
			row.Installment = models.NoInstallment
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type columnIndex struct {
	date        int
	merchant    int
	holder      int
	amount      int
	installment int
}

func indexHeader(header []string) columnIndex {
	cols := columnIndex{date: -1, merchant: -1, holder: -1, amount: -1, installment: -1}
	lookup := map[string]int{}
	for i, name := range header {
		lookup[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, bom)))] = i
	}

	find := func(names ...string) int {
		for _, n := range names {
			if i, ok := lookup[strings.ToLower(n)]; ok {
				return i
			}
		}
		return -1
	}

	cols.date = find("Data")
	cols.merchant = find(descriptionColumns...)
	cols.holder = find("Portador", "Titular")
	cols.amount = find("Valor")
	cols.installment = find("Parcela")
	return cols
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
