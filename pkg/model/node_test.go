package model

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw     string
		want    Level
		wantErr bool
	}{
		{"Bajo", LevelLow, false},
		{"medio", LevelMedium, false},
		{" ALTO ", LevelHigh, false},
		{"low", LevelLow, false},
		{"Medium", LevelMedium, false},
		{"high", LevelHigh, false},
		{"", "", true},
		{"Muy alto", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLevel(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLevelIndex(t *testing.T) {
	for i, l := range Levels() {
		if l.Index() != i {
			t.Errorf("%s.Index() = %d, want %d", l, l.Index(), i)
		}
	}
	if Level("x").Index() != -1 {
		t.Error("unknown level should have index -1")
	}
}

func TestNodePlaceholders(t *testing.T) {
	n := Node{ID: "Vecinos", Group: "Colonias", Interest: LevelHigh, Influence: LevelLow}
	if got := n.RoleOrPlaceholder(); got != Placeholder {
		t.Errorf("RoleOrPlaceholder() = %q, want %q", got, Placeholder)
	}
	if got := n.StrategyOrPlaceholder(); got != Placeholder {
		t.Errorf("StrategyOrPlaceholder() = %q, want %q", got, Placeholder)
	}

	n.Role = "Beneficiario"
	n.Strategy = "   "
	if got := n.RoleOrPlaceholder(); got != "Beneficiario" {
		t.Errorf("RoleOrPlaceholder() = %q", got)
	}
	if got := n.StrategyOrPlaceholder(); got != Placeholder {
		t.Errorf("blank strategy should fall back to placeholder, got %q", got)
	}
}

func TestNodeValidate(t *testing.T) {
	ok := Node{ID: "A", Interest: LevelLow, Influence: LevelHigh}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []Node{
		{ID: "", Interest: LevelLow, Influence: LevelLow},
		{ID: "B", Interest: "x", Influence: LevelLow},
		{ID: "C", Interest: LevelLow},
	}
	for _, n := range bad {
		if err := n.Validate(); err == nil {
			t.Errorf("expected error for %+v", n)
		}
	}
}
