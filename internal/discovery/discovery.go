// Package discovery enumerates fatura statement exports by naming
// convention and lifts period/card metadata out of the filename.
package discovery

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
)

// Statement files follow fatura_<period>_<card>.<ext> with ext csv or pdf,
// e.g. fatura_janeiro_nubank.csv.
const filePrefix = "fatura_"

// Find returns every statement file in dir matching the naming
// convention, CSVs first, each with filename metadata attached. An empty
// directory is an empty result, not an error; the caller decides whether
// that is fatal.
func Find(dir string) ([]models.StatementFile, error) {
	var files []models.StatementFile

	for _, glob := range []struct {
		pattern string
		format  models.FileFormat
	}{
		{filePrefix + "*.csv", models.FormatCSV},
		{filePrefix + "*.pdf", models.FormatPDF},
	} {
		matches, err := filepath.Glob(filepath.Join(dir, glob.pattern))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		sort.Strings(matches)
		for _, path := range matches {
			sf := FromPath(path)
			sf.Format = glob.format
			files = append(files, sf)
		}
	}
	return files, nil
}

// FromPath derives a StatementFile from a path. A stem with fewer than 3
// underscore-separated segments yields unknown period and card rather
// than an error.
func FromPath(path string) models.StatementFile {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(stem, "_")

	sf := models.StatementFile{
		Path:        path,
		PeriodLabel: models.Unknown,
		CardID:      models.Unknown,
	}
	if len(parts) >= 3 {
		sf.PeriodLabel = parts[1]
		sf.CardID = parts[2]
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		sf.Format = models.FormatPDF
	} else {
		sf.Format = models.FormatCSV
	}
	return sf
}
