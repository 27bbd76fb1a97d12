// Package writer serializes the ledger for spreadsheet consumers.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
)

// ledger export columns, in the order the analysis table shows them.
var csvHeader = []string{
	"Data", "Estabelecimento", "Portador", "Cartao", "Valor",
	"Categoria", "Parcela", "Mes_Fatura", "Arquivo_Fonte",
}

const dateLayout = "02/01/2006"

// utf-8 byte order mark: spreadsheet applications need it to pick the
// right encoding for accented merchant names.
var bom = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes the ledger as semicolon-separated UTF-8 with BOM.
type CSVWriter struct{}

// WriteToFile writes the ledger to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, led models.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, led)
}

// Write writes the ledger in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, led models.Ledger) error {
	if _, err := out.Write(bom); err != nil {
		return err
	}

	cw := csv.NewWriter(out)
	cw.Comma = ';'
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, txn := range led.Transactions {
		if err := cw.Write(csvRow(txn)); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	return cw.Error()
}

func csvRow(txn models.Transaction) []string {
	date := ""
	if !txn.Date.IsZero() {
		date = txn.Date.Format(dateLayout)
	}
	return []string{
		date,
		txn.Merchant,
		txn.Holder,
		txn.CardID,
		formatAmount(txn.Amount),
		txn.Category,
		txn.Installment,
		txn.PeriodLabel,
		txn.SourceFile,
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
