// Package categorize maps merchant text to a fixed set of spending
// categories by keyword matching.
package categorize

import "strings"

// Spending categories. Outros is the fallback when no keyword list matches.
const (
	Alimentacao   = "Alimentação"
	Transporte    = "Transporte"
	Servicos      = "Serviços"
	ComprasOnline = "Compras Online"
	Vestuario     = "Vestuário"
	Saude         = "Saúde"
	Outros        = "Outros"
)

// categoryRule pairs a category with its keyword list. Rules run in order
// and the first hit wins, so the ordering is part of the contract: the
// lists are not disjoint ("uber" is in the food list, "uber* trip" in the
// transport list), and a ride-share charge therefore lands in Alimentação
// before the transport list is ever consulted.
type categoryRule struct {
	category string
	keywords []string
}

var rules = []categoryRule{
	{Alimentacao, []string{
		"uber", "restaurante", "pizza", "cafe", "padaria", "supermercado",
		"atacadao", "carrefour", "havan", "farmácia",
	}},
	{Transporte, []string{
		"posto", "gasolina", "combustível", "uber* trip", "uber* pending",
	}},
	{Servicos, []string{
		"vivo", "starlink", "openai", "chatgpt", "youtube", "godaddy",
		"wondershare", "academia", "fitness",
	}},
	{ComprasOnline, []string{
		"amazon", "mercadolivre", "shopee", "ebay",
	}},
	{Vestuario, []string{
		"renner", "modas", "vestuário", "roupa", "sapato",
	}},
	{Saude, []string{
		"farmacia", "clinica", "medico", "saude",
	}},
}

// Merchant returns the spending category for a merchant string.
// Matching is case-insensitive substring containment.
func Merchant(merchant string) string {
	lower := strings.ToLower(merchant)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return Outros
}
