package ledger

import (
	"sort"

	"github.com/ujorgeleite/fatura-ledger/internal/models"
)

// GroupTotal aggregates the transactions sharing one grouping key.
type GroupTotal struct {
	Key          string  `json:"key"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Installments int     `json:"installments"`
}

// InstallmentOutlook projects the cost of the open installment plans:
// the full purchase values, what has shown up on statements so far, and
// what is still to come.
type InstallmentOutlook struct {
	ProjectedTotal float64 `json:"projectedTotal"`
	BilledSoFar    float64 `json:"billedSoFar"`
	Remaining      float64 `json:"remaining"`
}

// Summary is the aggregate view consumers render; it never reaches back
// into extraction logic.
type Summary struct {
	TotalSpent       float64            `json:"totalSpent"`
	Transactions     int                `json:"transactions"`
	MeanSpent        float64            `json:"meanSpent"`
	InstallmentCount int                `json:"installmentCount"`
	ByCard           []GroupTotal       `json:"byCard"`
	ByHolder         []GroupTotal       `json:"byHolder"`
	ByCategory       []GroupTotal       `json:"byCategory"`
	ByPeriod         []GroupTotal       `json:"byPeriod"`
	ByMonth          []GroupTotal       `json:"byMonth"`
	TopByValue       []GroupTotal       `json:"topMerchantsByValue"`
	TopByCount       []GroupTotal       `json:"topMerchantsByCount"`
	Installments     InstallmentOutlook `json:"installments"`
}

const topMerchants = 10

// Summarize computes every aggregate over the given ledger.
func Summarize(led models.Ledger) Summary {
	s := Summary{Transactions: led.Len()}

	for _, t := range led.Transactions {
		s.TotalSpent += t.Amount
		if t.IsInstallment {
			s.InstallmentCount++
			s.Installments.ProjectedTotal += t.ProjectedTotal
			s.Installments.BilledSoFar += t.Amount
		}
	}
	if s.Transactions > 0 {
		s.MeanSpent = s.TotalSpent / float64(s.Transactions)
	}
	s.Installments.Remaining = s.Installments.ProjectedTotal - s.Installments.BilledSoFar

	s.ByCard = groupBy(led, func(t models.Transaction) string { return t.CardID })
	s.ByHolder = groupBy(led, func(t models.Transaction) string { return t.Holder })
	s.ByCategory = groupBy(led, func(t models.Transaction) string { return t.Category })
	s.ByPeriod = groupBy(led, func(t models.Transaction) string { return t.PeriodLabel })
	s.ByMonth = groupBy(led, func(t models.Transaction) string {
		if t.Date.IsZero() {
			return models.Unknown
		}
		return t.Date.Format("2006-01")
	})

	merchants := groupBy(led, func(t models.Transaction) string { return t.Merchant })
	s.TopByValue = topN(merchants, topMerchants, func(a, b GroupTotal) bool { return a.Total > b.Total })
	s.TopByCount = topN(merchants, topMerchants, func(a, b GroupTotal) bool { return a.Count > b.Count })

	return s
}

func groupBy(led models.Ledger, key func(models.Transaction) string) []GroupTotal {
	idx := map[string]*GroupTotal{}
	for _, t := range led.Transactions {
		k := key(t)
		g, ok := idx[k]
		if !ok {
			g = &GroupTotal{Key: k}
			idx[k] = g
		}
		g.Total += t.Amount
		g.Count++
		if t.IsInstallment {
			g.Installments++
		}
	}

	out := make([]GroupTotal, 0, len(idx))
	for _, g := range idx {
		if g.Count > 0 {
			g.Mean = g.Total / float64(g.Count)
		}
		out = append(out, *g)
	}
	// largest spend first; key as tiebreak for stable output
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func topN(groups []GroupTotal, n int, less func(a, b GroupTotal) bool) []GroupTotal {
	out := make([]GroupTotal, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
