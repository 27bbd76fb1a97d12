// Package ledger combines every loaded statement file into one
// normalized, categorized transaction ledger.
package ledger

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ujorgeleite/fatura-ledger/internal/categorize"
	"github.com/ujorgeleite/fatura-ledger/internal/discovery"
	"github.com/ujorgeleite/fatura-ledger/internal/extractor"
	"github.com/ujorgeleite/fatura-ledger/internal/loader"
	"github.com/ujorgeleite/fatura-ledger/internal/models"
	"github.com/ujorgeleite/fatura-ledger/internal/normalize"
	"github.com/ujorgeleite/fatura-ledger/internal/parser"
)

// ErrNoData is returned when not a single statement file could be loaded.
// Per-file failures are warnings; an entirely empty load is not.
var ErrNoData = errors.New("no statement data loaded")

const dateLayout = "02/01/2006"

// Warning records one recovered per-file failure.
type Warning struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Result is the outcome of one load cycle.
type Result struct {
	RunID    string        `json:"runId"`
	Ledger   models.Ledger `json:"ledger"`
	Files    int           `json:"files"`
	Skipped  int           `json:"skipped"`
	Warnings []Warning     `json:"warnings,omitempty"`
	LoadedAt time.Time     `json:"loadedAt"`
}

// Service wires the loaders together. The page-text source is injected so
// the pipeline never depends on how pages become text.
type Service struct {
	Log   zerolog.Logger
	Pages extractor.PageSource
	// Year supplies the year assumed for the dd/mm dates on statement
	// pages. Defaults to the current year at load time.
	// TODO: derive the year from the fatura period label once the
	// filenames carry one; a December statement loaded in January is
	// currently dated a year late.
	Year func() int

	extract *parser.LineExtractor
}

// NewService builds a Service with the default page source and line
// extractor.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		Log:     log,
		Pages:   extractor.PageLines,
		Year:    func() int { return time.Now().Year() },
		extract: parser.NewLineExtractor(),
	}
}

// Load discovers every statement file in dir and builds the combined
// ledger. A file that cannot be read or parsed is skipped with a warning;
// the load fails only when nothing at all could be loaded.
func (s *Service) Load(dir string) (*Result, error) {
	files, err := discovery.Find(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no fatura files found in %s", ErrNoData, dir)
	}

	res := &Result{RunID: uuid.NewString(), LoadedAt: time.Now()}
	var raw []models.RawRow

	for _, sf := range files {
		rows, err := s.loadFile(sf)
		if err != nil {
			res.Skipped++
			res.Warnings = append(res.Warnings, Warning{File: sf.Path, Message: err.Error()})
			s.Log.Warn().Str("file", sf.Path).Err(err).Msg("statement file skipped")
			continue
		}
		res.Files++
		raw = append(raw, rows...)
	}

	if res.Files == 0 {
		return nil, fmt.Errorf("%w: all %d files in %s failed", ErrNoData, len(files), dir)
	}

	txns, err := s.combine(raw)
	if err != nil {
		return nil, err
	}
	res.Ledger.Append(txns...)

	s.Log.Info().
		Str("run", res.RunID).
		Int("files", res.Files).
		Int("skipped", res.Skipped).
		Int("transactions", res.Ledger.Len()).
		Msg("ledger loaded")
	return res, nil
}

func (s *Service) loadFile(sf models.StatementFile) ([]models.RawRow, error) {
	switch sf.Format {
	case models.FormatCSV:
		return loader.LoadCSV(sf)
	case models.FormatPDF:
		return s.loadPDF(sf)
	default:
		return nil, fmt.Errorf("unsupported format %q", sf.Format)
	}
}

func (s *Service) loadPDF(sf models.StatementFile) ([]models.RawRow, error) {
	pages, err := s.Pages(sf.Path)
	if err != nil {
		return nil, err
	}
	prov := parser.Provenance{
		Filename:    filepath.Base(sf.Path),
		PeriodLabel: sf.PeriodLabel,
		Year:        s.Year(),
	}
	rows := s.extractor().ExtractPages(pages, prov)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no transactions recognized in %s", sf.Path)
	}
	// card identity for page text comes from the document (or an override
	// policy), never from the filename: fallback rows keep the sentinel
	return rows, nil
}

func (s *Service) extractor() *parser.LineExtractor {
	if s.extract == nil {
		s.extract = parser.NewLineExtractor()
	}
	return s.extract
}

// combine applies, exactly once over the full raw set, date parsing,
// amount normalization and the derived installment/category fields.
func (s *Service) combine(raw []models.RawRow) ([]models.Transaction, error) {
	txns := make([]models.Transaction, 0, len(raw))
	for _, row := range raw {
		amount, err := normalize.AmountFloat(row.Amount)
		if err != nil {
			// normalization guarantees a parseable decimal for anything
			// resembling a number; reaching this means upstream data is
			// malformed beyond repair
			return nil, fmt.Errorf("amount %q in %s: %w", row.Amount, row.SourceFile, err)
		}
		if normalize.Suspicious(row.Amount, amount) {
			s.Log.Warn().
				Str("file", row.SourceFile).
				Str("raw", row.Amount).
				Float64("value", amount).
				Msg("suspicious normalized amount, review manually")
		}

		date, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			date = time.Time{}
		}

		info := parser.ParseInstallment(row.Installment, amount)
		txns = append(txns, models.Transaction{
			Date:             date,
			Merchant:         row.Merchant,
			Holder:           row.Holder,
			Amount:           amount,
			Installment:      row.Installment,
			SourceFile:       row.SourceFile,
			PeriodLabel:      row.PeriodLabel,
			CardID:           row.CardID,
			IsInstallment:    info.IsInstallment,
			InstallmentIndex: info.Index,
			InstallmentCount: info.Count,
			ProjectedTotal:   info.ProjectedTotal,
			Category:         categorize.Merchant(row.Merchant),
		})
	}
	return txns, nil
}
