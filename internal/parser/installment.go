package parser

import (
	"regexp"
	"strconv"
)

// installmentPattern matches the "<current> de <total>" convention used
// in the Parcela field, e.g. "3 de 10".
var installmentPattern = regexp.MustCompile(`(\d+) de (\d+)`)

// InstallmentInfo is the derived installment-plan metadata for one
// transaction. Index and Count are present together or not at all.
type InstallmentInfo struct {
	IsInstallment  bool
	Index          int
	Count          int
	ProjectedTotal float64
}

// ParseInstallment derives installment metadata from the free-text
// installment field. For a "3 de 10" purchase of 100, the projected full
// purchase value is 1000; for single payments it is the amount itself.
func ParseInstallment(field string, amount float64) InstallmentInfo {
	m := installmentPattern.FindStringSubmatch(field)
	if m == nil {
		return InstallmentInfo{ProjectedTotal: amount}
	}

	index, _ := strconv.Atoi(m[1])
	count, _ := strconv.Atoi(m[2])
	return InstallmentInfo{
		IsInstallment:  true,
		Index:          index,
		Count:          count,
		ProjectedTotal: amount * float64(count),
	}
}
