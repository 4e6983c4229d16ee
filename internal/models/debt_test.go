package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func owed(values ...string) []Liability {
	out := make([]Liability, len(values))
	for i, v := range values {
		out[i] = Liability{Name: v, TotalOwed: decimal.RequireFromString(v)}
	}
	return out
}

func rated(rates ...string) []Liability {
	out := make([]Liability, len(rates))
	for i, r := range rates {
		out[i] = Liability{Name: r, InterestRate: decimal.RequireFromString(r)}
	}
	return out
}

func names(ls []Liability) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Name
	}
	return out
}

func equalNames(t *testing.T, got []Liability, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, g)
		}
	}
}

func TestPrioritizeDebts_Snowball(t *testing.T) {
	in := owed("480000000", "6000000")
	got := PrioritizeDebts(in, StrategySnowball)

	equalNames(t, got, "6000000", "480000000")
	equalNames(t, in, "480000000", "6000000")
}

func TestPrioritizeDebts_Avalanche(t *testing.T) {
	equalNames(t, PrioritizeDebts(rated("12.5", "7.2"), StrategyAvalanche), "12.5", "7.2")
	equalNames(t, PrioritizeDebts(rated("7.2", "24.5"), StrategyAvalanche), "24.5", "7.2")
}

func TestPrioritizeDebts_StableTies(t *testing.T) {
	in := []Liability{
		{Name: "a", TotalOwed: decimal.NewFromInt(5)},
		{Name: "b", TotalOwed: decimal.NewFromInt(1)},
		{Name: "c", TotalOwed: decimal.NewFromInt(5)},
	}
	equalNames(t, PrioritizeDebts(in, StrategySnowball), "b", "a", "c")

	ties := []Liability{
		{Name: "x", InterestRate: decimal.NewFromInt(10)},
		{Name: "y", InterestRate: decimal.NewFromInt(10)},
	}
	equalNames(t, PrioritizeDebts(ties, StrategyAvalanche), "x", "y")
}

func TestParseDebtStrategy(t *testing.T) {
	s, err := ParseDebtStrategy("")
	if err != nil || s != StrategySnowball {
		t.Errorf("expected snowball default, got %q, %v", s, err)
	}
	if _, err := ParseDebtStrategy("random"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
