package game

import "testing"

func TestDefaultPrizeTable(t *testing.T) {
	table := DefaultPrizeTable(500_000_000)

	if got := table.Jackpot(); got != 500_000_000 {
		t.Errorf("Expected jackpot 500000000, got %d", got)
	}
	if got := table.Payout(5, false); got != 1_000_000 {
		t.Errorf("Expected near-miss payout 1000000, got %d", got)
	}
	if got := table.Payout(3, false); got != 7 {
		t.Errorf("Expected (3,false) payout 7, got %d", got)
	}
	if got := table.Payout(0, true); got != 4 {
		t.Errorf("Expected (0,true) payout 4, got %d", got)
	}
}

func TestPrizeTable_UnconfiguredPaysZero(t *testing.T) {
	table := DefaultPrizeTable(100)

	// Rows with no entry pay nothing.
	for _, key := range []PrizeKey{{0, false}, {1, false}, {2, false}} {
		if got := table.Payout(key.Matches, key.Powerball); got != 0 {
			t.Errorf("Expected (%d,%v) to pay 0, got %d", key.Matches, key.Powerball, got)
		}
	}

	// An entirely empty table pays zero everywhere, jackpot included.
	empty := PrizeTable{}
	if got := empty.Payout(3, false); got != 0 {
		t.Errorf("Expected empty table to pay 0, got %d", got)
	}
	if got := empty.Jackpot(); got != 0 {
		t.Errorf("Expected empty table jackpot 0, got %d", got)
	}
}
