package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
)

const (
	dataSheet    = "Dados"
	summarySheet = "Resumo"
)

// XLSXWriter writes the ledger as a workbook with a data sheet and a
// metrics summary sheet.
type XLSXWriter struct{}

// WriteToFile writes the workbook to the given path.
func (w *XLSXWriter) WriteToFile(path string, led models.Ledger) error {
	f, err := w.build(led)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// Write streams the workbook to the given writer.
func (w *XLSXWriter) Write(out io.Writer, led models.Ledger) error {
	f, err := w.build(led)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(out)
	return err
}

func (w *XLSXWriter) build(led models.Ledger) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, err
	}

	for col, name := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(dataSheet, cell, name); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, txn := range led.Transactions {
		row := csvRow(txn)
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(dataSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
		// keep the amount numeric so spreadsheet formulas work on it
		cell, _ := excelize.CoordinatesToCellName(5, i+2)
		if err := f.SetCellValue(dataSheet, cell, txn.Amount); err != nil {
			return nil, err
		}
	}

	if err := w.writeSummary(f, led); err != nil {
		return nil, err
	}
	return f, nil
}

func (w *XLSXWriter) writeSummary(f *excelize.File, led models.Ledger) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	var total float64
	installments := 0
	for _, txn := range led.Transactions {
		total += txn.Amount
		if txn.IsInstallment {
			installments++
		}
	}
	mean := 0.0
	if led.Len() > 0 {
		mean = total / float64(led.Len())
	}

	rows := []struct {
		metric string
		value  interface{}
	}{
		{"Total Gasto", total},
		{"Total Transações", led.Len()},
		{"Gasto Médio", mean},
		{"Transações Parceladas", installments},
	}

	if err := f.SetCellValue(summarySheet, "A1", "Métrica"); err != nil {
		return err
	}
	if err := f.SetCellValue(summarySheet, "B1", "Valor"); err != nil {
		return err
	}
	for i, r := range rows {
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+2), r.metric); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+2), r.value); err != nil {
			return err
		}
	}
	return nil
}
