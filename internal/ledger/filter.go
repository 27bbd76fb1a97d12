package ledger

import (
	"time"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
)

// Filter selects a slice of the ledger. Zero-valued fields match
// everything, mirroring the "Todos" option of each selector in the
// original analysis views.
type Filter struct {
	Holder           string
	CardID           string
	PeriodLabel      string
	Category         string
	InstallmentsOnly bool
	From             time.Time
	To               time.Time
}

// Apply returns a new ledger holding only the transactions the filter
// accepts, in their original order.
func Apply(led models.Ledger, f Filter) models.Ledger {
	var out models.Ledger
	for _, t := range led.Transactions {
		if f.Holder != "" && t.Holder != f.Holder {
			continue
		}
		if f.CardID != "" && t.CardID != f.CardID {
			continue
		}
		if f.PeriodLabel != "" && t.PeriodLabel != f.PeriodLabel {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.InstallmentsOnly && !t.IsInstallment {
			continue
		}
		if !f.From.IsZero() && t.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && t.Date.After(f.To) {
			continue
		}
		out.Append(t)
	}
	return out
}
