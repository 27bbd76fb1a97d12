package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
)

func write(t *testing.T, dir, name string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// fakePages serves canned page text per filename, standing in for the
// PDF extraction capability.
func fakePages(pages map[string][][]string) func(path string) ([][]string, error) {
	return func(path string) ([][]string, error) {
		if p, ok := pages[filepath.Base(path)]; ok {
			return p, nil
		}
		return nil, fmt.Errorf("unreadable document %s", path)
	}
}

func testService(pages map[string][][]string) *Service {
	svc := NewService(zerolog.Nop())
	svc.Pages = fakePages(pages)
	svc.Year = func() int { return 2025 }
	return svc
}

func TestLoadEndToEnd(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_janeiro_xp.csv",
		"Data;Estabelecimento;Portador;Valor;Parcela\n"+
			"05/01/2025;Pagamento de fatura;Jorge Leite;1.200,00;-\n"+
			"07/01/2025;POSTO SHELL;Jorge Leite;250,00;-\n"+
			"08/01/2025;MAGAZINE LUIZA;Jorge Leite;1.374,50;3 de 10\n")
	write(t, dir, "fatura_fevereiro_itau.pdf", "%PDF-placeholder")

	svc := testService(map[string][][]string{
		"fatura_fevereiro_itau.pdf": {{
			"Titular JORGE LEITE",
			"Cartão final 1234",
			"05/02 POSTO SHELL 120,00",
			"APPLE.COM/BILL 10/02 7,99",
		}},
	})

	res, err := svc.Load(dir)
	require.NoError(t, err)

	// 3 CSV rows minus the XP bill payment, plus 2 page lines
	require.Equal(t, 4, res.Ledger.Len())
	assert.Equal(t, 2, res.Files)
	assert.Zero(t, res.Skipped)
	assert.Empty(t, res.Warnings)
	assert.NotEmpty(t, res.RunID)

	for _, txn := range res.Ledger.Transactions {
		assert.NotEmpty(t, txn.Category, "category must always be assigned")
		assert.NotEmpty(t, txn.SourceFile, "provenance must be set")
		assert.NotEmpty(t, txn.PeriodLabel, "provenance must be set")
	}

	for _, txn := range res.Ledger.Transactions {
		assert.NotContains(t, txn.Merchant, "Pagamento de fatura")
	}
}

func TestLoadDerivedFields(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_janeiro_nubank.csv",
		"Data;Estabelecimento;Valor;Parcela\n"+
			"07/01/2025;POSTO SHELL;250,00;-\n"+
			"08/01/2025;MAGAZINE LUIZA;100,00;3 de 10\n")

	res, err := testService(nil).Load(dir)
	require.NoError(t, err)
	require.Equal(t, 2, res.Ledger.Len())

	shell := res.Ledger.Transactions[0]
	assert.Equal(t, 250.0, shell.Amount)
	assert.Equal(t, "Transporte", shell.Category)
	assert.False(t, shell.IsInstallment)
	assert.Equal(t, 250.0, shell.ProjectedTotal)
	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), shell.Date)

	luiza := res.Ledger.Transactions[1]
	assert.True(t, luiza.IsInstallment)
	assert.Equal(t, 3, luiza.InstallmentIndex)
	assert.Equal(t, 10, luiza.InstallmentCount)
	assert.Equal(t, 1000.0, luiza.ProjectedTotal)
}

func TestLoadUnparseableDateBecomesZeroTime(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_janeiro_nubank.csv",
		"Data;Estabelecimento;Valor;Parcela\n"+
			"sem data;POSTO SHELL;250,00;-\n")

	res, err := testService(nil).Load(dir)
	require.NoError(t, err)
	require.Equal(t, 1, res.Ledger.Len())
	assert.True(t, res.Ledger.Transactions[0].Date.IsZero())
}

func TestLoadPageTextYearDefault(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_marco_nubank.pdf", "%PDF-placeholder")

	svc := testService(map[string][][]string{
		"fatura_marco_nubank.pdf": {{
			"Titular JORGE LEITE",
			"Cartão final 1234",
			"28/11 APPLE.COM/BILL 7,99",
		}},
	})

	res, err := svc.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 1, res.Ledger.Len())
	assert.Equal(t, 2025, res.Ledger.Transactions[0].Date.Year())
}

func TestLoadFallbackPDFKeepsSentinelIdentity(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_marco_nubank.pdf", "%PDF-placeholder")

	// no Titular/Cartão lines anywhere: the fallback pass runs and the
	// filename card segment must not leak into the rows
	svc := testService(map[string][][]string{
		"fatura_marco_nubank.pdf": {{
			"28/11 APPLE.COM/BILL 7,99",
		}},
	})

	res, err := svc.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 1, res.Ledger.Len())
	assert.Equal(t, models.Unknown, res.Ledger.Transactions[0].CardID)
	assert.Equal(t, models.Unknown, res.Ledger.Transactions[0].Holder)
}

func TestLoadEmptyDirIsFatal(t *testing.T) {
	_, err := testService(nil).Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestLoadPartialFailure(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_janeiro_nubank.csv", "completely broken\nnot a statement\n")
	write(t, dir, "fatura_fevereiro_itau.pdf", "%PDF-placeholder")

	svc := testService(map[string][][]string{
		"fatura_fevereiro_itau.pdf": {{
			"Titular JORGE LEITE",
			"Cartão final 1234",
			"05/02 POSTO SHELL 120,00",
		}},
	})

	res, err := svc.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Ledger.Len())
	assert.Equal(t, 1, res.Files)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].File, "fatura_janeiro_nubank.csv")
}

func TestLoadAllFilesFailedIsFatal(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_janeiro_nubank.csv", "completely broken\nnot a statement\n")

	_, err := testService(nil).Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestLoadMalformedAmountIsHardError(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_janeiro_nubank.csv",
		"Data;Estabelecimento;Valor;Parcela\n"+
			"07/01/2025;POSTO SHELL;12-34;-\n")

	_, err := testService(nil).Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "12-34")
}

func TestLoaderMemoization(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "fatura_janeiro_nubank.csv",
		"Data;Estabelecimento;Valor;Parcela\n"+
			"07/01/2025;POSTO SHELL;250,00;-\n")

	l := NewLoader(testService(nil), dir)

	first, err := l.Load()
	require.NoError(t, err)
	second, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, first.RunID, second.RunID, "second load must come from cache")

	l.Invalidate()
	third, err := l.Load()
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, third.RunID, "invalidation must force a reload")
}
