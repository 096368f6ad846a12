package engine

import "sort"

// Pot is one tier of the side-pot structure. Eligible holds, in table seat
// order, the identities allowed to win the tier; Winners is filled at
// settlement. Auto marks a pot awarded without evaluation.
type Pot struct {
	Tier     int64
	Amount   int64
	Eligible []string
	Winners  []string
	Auto     bool
	Split    bool
}

// buildPots partitions the in-hand seats' cumulative contributions into side
// pots: one tier per distinct TotalBet level, ascending, each tier eligible
// to the non-folded seats that contributed at least that much. Adjacent
// tiers with identical eligible sets are merged. A tier whose contributors
// have all folded is folded into the neighbouring pot so no chips are ever
// orphaned.
//
// Invariant: the summed pot amounts equal the summed TotalBet of all seats
// still in the hand.
func buildPots(seats []*Seat) []Pot {
	tierSet := map[int64]bool{}
	for _, s := range seats {
		if s.InHand && s.TotalBet > 0 {
			tierSet[s.TotalBet] = true
		}
	}
	if len(tierSet) == 0 {
		return nil
	}
	tiers := make([]int64, 0, len(tierSet))
	for tier := range tierSet {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

	pots := make([]Pot, 0, len(tiers))
	var prev int64
	var orphaned int64 // contributions whose eligible set came up empty
	for _, tier := range tiers {
		slice := tier - prev
		var amount int64
		eligible := make([]string, 0, len(seats))
		for _, s := range seats {
			if !s.InHand || s.TotalBet <= prev {
				continue
			}
			contrib := s.TotalBet - prev
			if contrib > slice {
				contrib = slice
			}
			amount += contrib
			if !s.Folded && s.TotalBet >= tier {
				eligible = append(eligible, s.ID)
			}
		}
		prev = tier
		if amount == 0 {
			continue
		}
		if len(eligible) == 0 {
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += amount
			} else {
				orphaned += amount
			}
			continue
		}
		if len(pots) > 0 && sameEligible(pots[len(pots)-1].Eligible, eligible) {
			pots[len(pots)-1].Amount += amount
			pots[len(pots)-1].Tier = tier
			continue
		}
		pots = append(pots, Pot{Tier: tier, Amount: amount + orphaned, Eligible: eligible})
		orphaned = 0
	}
	return pots
}

func potTotal(pots []Pot) int64 {
	var total int64
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

func sameEligible(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
