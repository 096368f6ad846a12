package engine

import "testing"

func potSeat(id string, total int64, folded bool) *Seat {
	return &Seat{ID: id, InHand: true, Folded: folded, TotalBet: total}
}

func TestSidePotPartition(t *testing.T) {
	seats := []*Seat{
		potSeat("a", 20, false),
		potSeat("b", 50, false),
		potSeat("c", 50, false),
		potSeat("d", 100, false),
	}
	pots := buildPots(seats)
	if len(pots) != 3 {
		t.Fatalf("expected 3 pots, got %d: %+v", len(pots), pots)
	}
	wantAmounts := []int64{80, 90, 50}
	wantEligible := [][]string{
		{"a", "b", "c", "d"},
		{"b", "c", "d"},
		{"d"},
	}
	for i, p := range pots {
		if p.Amount != wantAmounts[i] {
			t.Errorf("pot %d amount = %d, want %d", i, p.Amount, wantAmounts[i])
		}
		if !sameEligible(p.Eligible, wantEligible[i]) {
			t.Errorf("pot %d eligible = %v, want %v", i, p.Eligible, wantEligible[i])
		}
	}
	if potTotal(pots) != 220 {
		t.Fatalf("pots hold %d chips, want 220", potTotal(pots))
	}
}

func TestFoldedChipsStayInPot(t *testing.T) {
	seats := []*Seat{
		potSeat("a", 30, true),
		potSeat("b", 30, false),
		potSeat("c", 30, false),
	}
	pots := buildPots(seats)
	if len(pots) != 1 {
		t.Fatalf("expected 1 pot, got %d", len(pots))
	}
	if pots[0].Amount != 90 {
		t.Fatalf("pot amount = %d, want 90 (folded chips stay)", pots[0].Amount)
	}
	if !sameEligible(pots[0].Eligible, []string{"b", "c"}) {
		t.Fatalf("folded seat must not be eligible: %v", pots[0].Eligible)
	}
}

func TestIdenticalEligibleTiersMerge(t *testing.T) {
	// A short folded seat creates a lower tier, but with the same live
	// eligibility it must collapse into one pot.
	seats := []*Seat{
		potSeat("a", 10, true),
		potSeat("b", 40, false),
		potSeat("c", 40, false),
	}
	pots := buildPots(seats)
	if len(pots) != 1 {
		t.Fatalf("expected merged single pot, got %d: %+v", len(pots), pots)
	}
	if pots[0].Amount != 90 {
		t.Fatalf("pot amount = %d, want 90", pots[0].Amount)
	}
}

func TestUncalledExcessBecomesSingleEligiblePot(t *testing.T) {
	seats := []*Seat{
		potSeat("a", 100, false),
		potSeat("b", 40, false),
	}
	pots := buildPots(seats)
	if len(pots) != 2 {
		t.Fatalf("expected main pot plus excess, got %d", len(pots))
	}
	if pots[0].Amount != 80 || !sameEligible(pots[0].Eligible, []string{"a", "b"}) {
		t.Fatalf("main pot wrong: %+v", pots[0])
	}
	if pots[1].Amount != 60 || !sameEligible(pots[1].Eligible, []string{"a"}) {
		t.Fatalf("excess pot wrong: %+v", pots[1])
	}
}

func TestNoContributionsNoPots(t *testing.T) {
	seats := []*Seat{potSeat("a", 0, false), potSeat("b", 0, false)}
	if pots := buildPots(seats); pots != nil {
		t.Fatalf("expected no pots, got %+v", pots)
	}
}
