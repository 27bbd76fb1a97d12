package models

import "time"

// Unknown is the sentinel used whenever a piece of statement metadata
// (period, card, holder) could not be resolved from the input.
const Unknown = "Desconhecido"

// NoInstallment is the sentinel stored in the installment field for
// single-payment purchases.
const NoInstallment = "-"

// FileFormat identifies the two supported statement export shapes.
type FileFormat string

const (
	FormatCSV FileFormat = "csv"
	FormatPDF FileFormat = "pdf"
)

// StatementFile is one discovered fatura export, with the metadata
// carried by its filename (fatura_<period>_<card>.<ext>).
type StatementFile struct {
	Path        string     `json:"path"`
	PeriodLabel string     `json:"periodLabel"`
	CardID      string     `json:"cardId"`
	Format      FileFormat `json:"format"`
}

// RawRow is an extracted record before normalization: all fields are the
// free text found in the source, plus provenance. Rows only live between
// a loader and the combiner.
type RawRow struct {
	Date        string // dd/mm/yyyy as extracted (or built from dd/mm + year)
	Merchant    string
	Holder      string
	Amount      string // textual, still in Brazilian locale conventions
	Installment string
	SourceFile  string
	PeriodLabel string
	CardID      string
}

// Transaction is one normalized ledger entry.
type Transaction struct {
	Date        time.Time `json:"date"` // zero when the source date was unparseable
	Merchant    string    `json:"merchant"`
	Holder      string    `json:"holder"`
	Amount      float64   `json:"amount"`
	Installment string    `json:"installment"` // raw field, e.g. "3 de 10", or "-"

	SourceFile  string `json:"sourceFile"`
	PeriodLabel string `json:"periodLabel"`
	CardID      string `json:"cardId"`

	// Derived once at combination time.
	IsInstallment    bool    `json:"isInstallment"`
	InstallmentIndex int     `json:"installmentIndex,omitempty"`
	InstallmentCount int     `json:"installmentCount,omitempty"`
	ProjectedTotal   float64 `json:"projectedTotal"`
	Category         string  `json:"category"`
}

// Ledger is the combined, ordered set of accepted transactions across all
// loaded statement files. Repeated extraction of the same physical
// transaction by both line patterns is possible and not deduplicated.
type Ledger struct {
	Transactions []Transaction `json:"transactions"`
}

// Append adds a batch of transactions to the ledger.
func (l *Ledger) Append(txns ...Transaction) {
	l.Transactions = append(l.Transactions, txns...)
}

// Len returns the number of transactions in the ledger. The value
// receiver keeps it callable on function results.
func (l Ledger) Len() int {
	return len(l.Transactions)
}
