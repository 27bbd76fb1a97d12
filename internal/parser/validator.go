package parser

import (
	"regexp"
	"strings"

	"github.com/ujorgeleite/fatura-ledger/internal/normalize"
)

// Confidence band for extracted amounts. Values outside it are almost
// always parsing artifacts (page numbers, summary totals, dates read as
// amounts), not purchases. This trades recall for precision.
const (
	minValidAmount = 1.0
	maxValidAmount = 10000.0
)

var hasLetter = regexp.MustCompile(`[A-Za-z]`)

// boilerplateTerms mark statement summary and metadata lines (totals,
// balances, fees, insurance, limits, installment headers, issuer labels)
// that the line patterns happily match but that are not purchases.
var boilerplateTerms = []string{
	"lançamentos", "lançamentosnocartão", "lançamentosinternacionais",
	"total", "saldo", "pagamento", "fatura", "seguro", "iof", "cet",
	"juros", "multa", "anterior", "atual", "proximo", "vencimento",
	"limite", "disponivel", "produtos", "serviços", "compras",
	"parceladas", "demais", "faturas", "próximas", "estorno",
	"anuidade", "diferencia", "previsão", "período", "processo",
	"seguradora", "corretora", "cnpj", "cpf", "documento", "número",
}

// ValidCandidate applies the confidence filter to an extracted
// (merchant, amount) pair. Rejections are expected and silent: they are
// the absence of a transaction, not an error.
func ValidCandidate(merchant, amount string) bool {
	if merchant == "" || !hasLetter.MatchString(merchant) {
		return false
	}

	lower := strings.ToLower(merchant)
	for _, term := range boilerplateTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}

	value, err := normalize.AmountFloat(amount)
	if err != nil {
		return false
	}
	if value < minValidAmount || value > maxValidAmount {
		return false
	}
	return true
}
