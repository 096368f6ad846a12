package engine

import (
	"testing"

	"pokernight/card"
)

func cards(codes ...string) []card.Card {
	out := make([]card.Card, 0, len(codes))
	for _, code := range codes {
		out = append(out, card.MustParse(code))
	}
	return out
}

func TestCategoryOrdering(t *testing.T) {
	hands := [][]string{
		{"Ah", "Kd", "9s", "5c", "2h"}, // high card
		{"Ah", "Ad", "9s", "5c", "2h"}, // pair
		{"Ah", "Ad", "9s", "9c", "2h"}, // two pair
		{"Ah", "Ad", "As", "5c", "2h"}, // trips
		{"6h", "5d", "4s", "3c", "2h"}, // straight
		{"Ah", "Jh", "9h", "5h", "2h"}, // flush
		{"Ah", "Ad", "As", "5c", "5h"}, // full house
		{"Ah", "Ad", "As", "Ac", "2h"}, // quads
		{"9s", "8s", "7s", "6s", "5s"}, // straight flush
		{"As", "Ks", "Qs", "Js", "Ts"}, // royal flush
	}

	var prev uint32
	for i, h := range hands {
		hv := EvaluateBest(cards(h...))
		if hv == nil {
			t.Fatalf("hand %d: nil evaluation", i)
		}
		if hv.Score <= prev {
			t.Fatalf("hand %d (%v, %s) scored %d, not above previous %d", i, h, hv.Label, hv.Score, prev)
		}
		prev = hv.Score
	}
}

func TestRoyalFlushLabel(t *testing.T) {
	hv := EvaluateBest(cards("As", "Ks", "Qs", "Js", "Ts"))
	if hv.Category != HandRoyalFlush {
		t.Fatalf("expected royal flush, got %s", hv.Category)
	}
	if hv.Label != "Royal Flush" {
		t.Fatalf("unexpected label %q", hv.Label)
	}
}

func TestWheelIsLowestStraight(t *testing.T) {
	wheel := EvaluateBest(cards("Ah", "2s", "3d", "4c", "5h"))
	if wheel.Category != HandStraight {
		t.Fatalf("wheel classified as %s", wheel.Category)
	}
	six := EvaluateBest(cards("2h", "3s", "4d", "5c", "6h"))
	if wheel.Score >= six.Score {
		t.Fatalf("wheel (%d) should lose to six-high straight (%d)", wheel.Score, six.Score)
	}
	trips := EvaluateBest(cards("Qh", "Qd", "Qs", "2c", "3c"))
	if wheel.Score <= trips.Score {
		t.Fatalf("wheel (%d) should beat trips (%d)", wheel.Score, trips.Score)
	}
}

func TestKickerBreaksPairTie(t *testing.T) {
	kingKicker := EvaluateBest(cards("Ah", "As", "Kd", "3c", "2h"))
	queenKicker := EvaluateBest(cards("Ac", "Ad", "Qh", "3s", "2s"))
	if kingKicker.Score <= queenKicker.Score {
		t.Fatalf("king kicker (%d) should beat queen kicker (%d)", kingKicker.Score, queenKicker.Score)
	}
}

func TestBestOfSeven(t *testing.T) {
	hv := EvaluateBest(cards("Ac", "Ad", "Kh", "Kd", "2s", "7c", "9h"))
	if hv.Category != HandTwoPair {
		t.Fatalf("expected two pair, got %s (%s)", hv.Category, hv.Label)
	}
	if hv.Label != "Two Pair, Aces and Kings" {
		t.Fatalf("unexpected label %q", hv.Label)
	}
	if len(hv.Best) != 5 {
		t.Fatalf("expected best 5 cards, got %d", len(hv.Best))
	}
}

func TestPartialEvaluation(t *testing.T) {
	if hv := EvaluateBest(cards("Ah")); hv != nil {
		t.Fatalf("single card should not evaluate, got %s", hv.Label)
	}
	hv := EvaluateBest(cards("Ah", "Ad"))
	if hv == nil || hv.Category != HandOnePair {
		t.Fatalf("pocket pair should classify as a pair, got %+v", hv)
	}
	if hv.Label != "Pair of Aces" {
		t.Fatalf("unexpected label %q", hv.Label)
	}
}

func TestFindWinnersBoardPlaysForEveryone(t *testing.T) {
	board := cards("2h", "3h", "4h", "5h", "6h")
	contenders := []Contender{
		{SeatID: "a", Hole: cards("As", "Kd")},
		{SeatID: "b", Hole: cards("Qc", "Jd")},
	}
	winners := FindWinners(contenders, board)
	if len(winners) != 2 || winners[0] != "a" || winners[1] != "b" {
		t.Fatalf("expected split in input order, got %v", winners)
	}
}

func TestFindWinnersBetterHoleWins(t *testing.T) {
	board := cards("2h", "3h", "4h", "5h", "9c")
	contenders := []Contender{
		{SeatID: "a", Hole: cards("As", "Kd")},
		{SeatID: "b", Hole: cards("6h", "7h")},
	}
	winners := FindWinners(contenders, board)
	if len(winners) != 1 || winners[0] != "b" {
		t.Fatalf("expected b's straight flush to win, got %v", winners)
	}
}

func TestFindWinnersDegenerateInputs(t *testing.T) {
	if w := FindWinners(nil, nil); len(w) != 0 {
		t.Fatalf("no contenders should yield no winners, got %v", w)
	}
	w := FindWinners([]Contender{{SeatID: "solo"}}, nil)
	if len(w) != 1 || w[0] != "solo" {
		t.Fatalf("single contender should win outright, got %v", w)
	}
}
