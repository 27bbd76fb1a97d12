package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "fatura_janeiro_nubank.csv")
	touch(t, dir, "fatura_marco_itau.pdf")
	touch(t, dir, "fatura_abril_xp.csv")
	touch(t, dir, "notas_janeiro.csv")   // wrong prefix
	touch(t, dir, "fatura_maio_c6.txt")  // wrong extension

	files, err := Find(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	byPeriod := map[string]models.StatementFile{}
	for _, f := range files {
		byPeriod[f.PeriodLabel] = f
	}

	assert.Equal(t, "nubank", byPeriod["janeiro"].CardID)
	assert.Equal(t, models.FormatCSV, byPeriod["janeiro"].Format)
	assert.Equal(t, "itau", byPeriod["marco"].CardID)
	assert.Equal(t, models.FormatPDF, byPeriod["marco"].Format)
	assert.Equal(t, "xp", byPeriod["abril"].CardID)
}

func TestFindEmptyDirIsNotAnError(t *testing.T) {
	files, err := Find(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFromPathShortStem(t *testing.T) {
	sf := FromPath("/data/faturas/fatura_resumo.csv")
	assert.Equal(t, models.Unknown, sf.PeriodLabel)
	assert.Equal(t, models.Unknown, sf.CardID)
	assert.Equal(t, models.FormatCSV, sf.Format)
}

func TestFromPathExtraSegments(t *testing.T) {
	sf := FromPath("fatura_junho_nubank_extra.pdf")
	assert.Equal(t, "junho", sf.PeriodLabel)
	assert.Equal(t, "nubank", sf.CardID)
	assert.Equal(t, models.FormatPDF, sf.Format)
}
