package parser

import "testing"

func TestValidCandidate(t *testing.T) {
	tests := []struct {
		name     string
		merchant string
		amount   string
		expected bool
	}{
		{"regular purchase", "UBER* TRIP", "23,50", true},
		{"plain integer amount", "MERCADOLIVRE", "150", true},
		{"empty merchant", "", "23,50", false},
		{"no letters", "*** --- ***", "23,50", false},
		{"summary line", "SALDO ANTERIOR", "1.234,56", false},
		{"total line", "TOTAL DA FATURA", "2.000,00", false},
		{"insurance line", "SEGURO CARTAO PROTEGIDO", "9,90", false},
		{"bill payment", "PAGAMENTO EFETUADO", "500,00", false},
		{"below band", "PADARIA CENTRAL", "0,50", false},
		{"above band", "LOJA GRANDE", "15.000,00", false},
		{"band lower edge", "PADARIA CENTRAL", "1,00", true},
		{"band upper edge", "LOJA GRANDE", "10.000,00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidCandidate(tt.merchant, tt.amount)
			if got != tt.expected {
				t.Errorf("ValidCandidate(%q, %q): got %v, want %v", tt.merchant, tt.amount, got, tt.expected)
			}
		})
	}
}

func TestValidCandidateCaseInsensitiveDenylist(t *testing.T) {
	if ValidCandidate("Saldo Anterior", "100,00") {
		t.Error("denylist must match regardless of case")
	}
}

func TestParseInstallment(t *testing.T) {
	info := ParseInstallment("3 de 10", 100)
	if !info.IsInstallment {
		t.Fatal("expected installment")
	}
	if info.Index != 3 || info.Count != 10 {
		t.Errorf("index/count: got %d/%d, want 3/10", info.Index, info.Count)
	}
	if info.ProjectedTotal != 1000 {
		t.Errorf("ProjectedTotal: got %f, want 1000", info.ProjectedTotal)
	}

	info = ParseInstallment("-", 59.90)
	if info.IsInstallment {
		t.Error("sentinel field must not be an installment")
	}
	if info.ProjectedTotal != 59.90 {
		t.Errorf("ProjectedTotal: got %f, want the amount itself", info.ProjectedTotal)
	}

	info = ParseInstallment("Parcela 02 de 06", 50)
	if !info.IsInstallment || info.Index != 2 || info.Count != 6 || info.ProjectedTotal != 300 {
		t.Errorf("embedded pattern: got %+v", info)
	}
}
