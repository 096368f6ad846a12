package engine

import (
	"fmt"
	"sort"

	"pokernight/card"
)

// HandCategory orders poker hand classes from weakest to strongest.
type HandCategory byte

const (
	HandHighCard HandCategory = iota + 1
	HandOnePair
	HandTwoPair
	HandThreeOfKind
	HandStraight
	HandFlush
	HandFullHouse
	HandFourOfKind
	HandStraightFlush
	HandRoyalFlush
)

var handCategoryNames = map[HandCategory]string{
	HandHighCard:      "High Card",
	HandOnePair:       "Pair",
	HandTwoPair:       "Two Pair",
	HandThreeOfKind:   "Three of a Kind",
	HandStraight:      "Straight",
	HandFlush:         "Flush",
	HandFullHouse:     "Full House",
	HandFourOfKind:    "Four of a Kind",
	HandStraightFlush: "Straight Flush",
	HandRoyalFlush:    "Royal Flush",
}

func (c HandCategory) String() string {
	if name, ok := handCategoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// HandValue is the result of ranking a hand. Score is a packed
// (category, tiebreaks) value where larger is always stronger.
type HandValue struct {
	Category HandCategory
	Score    uint32
	Label    string
	Best     []card.Card // best 5 cards for 5-7 card input, all cards otherwise
}

// Contender pairs a seat identity with its hole cards for winner selection.
type Contender struct {
	SeatID string
	Hole   []card.Card
}

var rankWords = map[int]string{
	2: "Twos", 3: "Threes", 4: "Fours", 5: "Fives", 6: "Sixes", 7: "Sevens",
	8: "Eights", 9: "Nines", 10: "Tens", 11: "Jacks", 12: "Queens", 13: "Kings", 14: "Aces",
}

var rankWord = map[int]string{
	2: "Two", 3: "Three", 4: "Four", 5: "Five", 6: "Six", 7: "Seven",
	8: "Eight", 9: "Nine", 10: "Ten", 11: "Jack", 12: "Queen", 13: "King", 14: "Ace",
}

// EvaluateBest ranks 2-7 cards. For 5-7 cards it evaluates every 5-card
// combination and returns the maximum by (category, tiebreak). For 2-4 cards
// it returns a simplified pairing classification that is good enough for
// live-hand display but is not a legal showdown evaluation path. Returns nil
// for fewer than 2 cards.
func EvaluateBest(cards []card.Card) *HandValue {
	switch {
	case len(cards) < 2:
		return nil
	case len(cards) < 5:
		return evalPartial(cards)
	default:
		return evalBestOfFive(cards)
	}
}

// FindWinners returns the subset of contenders achieving the maximum score
// over hole cards plus the full board, preserving input order. Empty input
// yields an empty result; a single contender wins without evaluation.
func FindWinners(contenders []Contender, board []card.Card) []string {
	if len(contenders) == 0 {
		return nil
	}
	if len(contenders) == 1 {
		return []string{contenders[0].SeatID}
	}

	var winners []string
	var bestScore uint32
	for _, c := range contenders {
		all := make([]card.Card, 0, len(c.Hole)+len(board))
		all = append(all, c.Hole...)
		all = append(all, board...)
		hv := EvaluateBest(all)
		if hv == nil {
			continue
		}
		switch {
		case hv.Score > bestScore:
			bestScore = hv.Score
			winners = winners[:0]
			winners = append(winners, c.SeatID)
		case hv.Score == bestScore:
			winners = append(winners, c.SeatID)
		}
	}
	return winners
}

func evalBestOfFive(cards []card.Card) *HandValue {
	n := len(cards)
	if n > 7 {
		cards = cards[:7]
		n = 7
	}

	var best *HandValue
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five := []card.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						hv := eval5(five)
						if best == nil || hv.Score > best.Score {
							best = hv
						}
					}
				}
			}
		}
	}
	return best
}

// eval5 ranks exactly 5 cards.
func eval5(five []card.Card) *HandValue {
	ranks := make([]int, 0, 5)
	counts := make(map[int]int, 5)
	flush := true
	suit0 := five[0].Suit()
	for _, c := range five {
		r := c.HighRank()
		ranks = append(ranks, r)
		counts[r]++
		if c.Suit() != suit0 {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	straightHigh := straightHighRank(counts)
	straight := straightHigh > 0

	var cat HandCategory
	var tiebreaks []int

	switch {
	case straight && flush:
		if straightHigh == 14 {
			cat = HandRoyalFlush
		} else {
			cat = HandStraightFlush
		}
		tiebreaks = []int{straightHigh}
	case hasCount(counts, 4):
		cat = HandFourOfKind
		quad := rankWithCount(counts, 4)
		tiebreaks = []int{quad, highestExcept(ranks, quad)}
	case hasCount(counts, 3) && hasCount(counts, 2):
		cat = HandFullHouse
		tiebreaks = []int{rankWithCount(counts, 3), rankWithCount(counts, 2)}
	case flush:
		cat = HandFlush
		tiebreaks = ranks
	case straight:
		cat = HandStraight
		tiebreaks = []int{straightHigh}
	case hasCount(counts, 3):
		cat = HandThreeOfKind
		trips := rankWithCount(counts, 3)
		tiebreaks = append([]int{trips}, kickers(ranks, trips)...)
	case pairCount(counts) == 2:
		cat = HandTwoPair
		hi, lo := twoPairRanks(counts)
		tiebreaks = []int{hi, lo, highestExcept(ranks, hi, lo)}
	case pairCount(counts) == 1:
		cat = HandOnePair
		pair := rankWithCount(counts, 2)
		tiebreaks = append([]int{pair}, kickers(ranks, pair)...)
	default:
		cat = HandHighCard
		tiebreaks = ranks
	}

	return &HandValue{
		Category: cat,
		Score:    packScore(cat, tiebreaks),
		Label:    label5(cat, tiebreaks),
		Best:     append([]card.Card{}, five...),
	}
}

// evalPartial classifies 2-4 cards by pairing only.
func evalPartial(cards []card.Card) *HandValue {
	ranks := make([]int, 0, 4)
	counts := make(map[int]int, 4)
	for _, c := range cards {
		r := c.HighRank()
		ranks = append(ranks, r)
		counts[r]++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	var cat HandCategory
	var tiebreaks []int
	switch {
	case hasCount(counts, 4):
		cat = HandFourOfKind
		tiebreaks = []int{rankWithCount(counts, 4)}
	case hasCount(counts, 3):
		cat = HandThreeOfKind
		trips := rankWithCount(counts, 3)
		tiebreaks = append([]int{trips}, kickers(ranks, trips)...)
	case pairCount(counts) == 2:
		cat = HandTwoPair
		hi, lo := twoPairRanks(counts)
		tiebreaks = []int{hi, lo}
	case pairCount(counts) == 1:
		cat = HandOnePair
		pair := rankWithCount(counts, 2)
		tiebreaks = append([]int{pair}, kickers(ranks, pair)...)
	default:
		cat = HandHighCard
		tiebreaks = ranks
	}

	return &HandValue{
		Category: cat,
		Score:    packScore(cat, tiebreaks),
		Label:    label5(cat, tiebreaks),
		Best:     append([]card.Card{}, cards...),
	}
}

// packScore packs category and up to five tiebreak ranks into a uint32,
// one nibble per rank, so that numeric comparison matches hand order.
func packScore(cat HandCategory, tiebreaks []int) uint32 {
	score := uint32(cat) << 20
	shift := 16
	for i := 0; i < 5; i++ {
		var r int
		if i < len(tiebreaks) {
			r = tiebreaks[i]
		}
		score |= uint32(r) << shift
		shift -= 4
	}
	return score
}

// straightHighRank returns the top rank of a 5-card straight, 5 for the
// wheel (A-2-3-4-5), 0 when the cards are not a straight.
func straightHighRank(counts map[int]int) int {
	if len(counts) != 5 {
		return 0
	}
	lo, hi := 15, 0
	for r := range counts {
		if r < lo {
			lo = r
		}
		if r > hi {
			hi = r
		}
	}
	if hi-lo == 4 {
		return hi
	}
	// Wheel: A,5,4,3,2.
	if counts[14] == 1 && counts[2] == 1 && counts[3] == 1 && counts[4] == 1 && counts[5] == 1 {
		return 5
	}
	return 0
}

func hasCount(counts map[int]int, n int) bool {
	for _, c := range counts {
		if c == n {
			return true
		}
	}
	return false
}

func rankWithCount(counts map[int]int, n int) int {
	best := 0
	for r, c := range counts {
		if c == n && r > best {
			best = r
		}
	}
	return best
}

func pairCount(counts map[int]int) int {
	pairs := 0
	for _, c := range counts {
		if c == 2 {
			pairs++
		}
	}
	return pairs
}

func twoPairRanks(counts map[int]int) (hi, lo int) {
	for r, c := range counts {
		if c != 2 {
			continue
		}
		if r > hi {
			hi, lo = r, hi
		} else if r > lo {
			lo = r
		}
	}
	return hi, lo
}

// kickers returns ranks in descending order excluding every listed rank.
func kickers(sortedRanks []int, except ...int) []int {
	out := make([]int, 0, len(sortedRanks))
	for _, r := range sortedRanks {
		skip := false
		for _, x := range except {
			if r == x {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, r)
		}
	}
	return out
}

func highestExcept(sortedRanks []int, except ...int) int {
	ks := kickers(sortedRanks, except...)
	if len(ks) == 0 {
		return 0
	}
	return ks[0]
}

func label5(cat HandCategory, tiebreaks []int) string {
	lead := 0
	if len(tiebreaks) > 0 {
		lead = tiebreaks[0]
	}
	switch cat {
	case HandRoyalFlush:
		return "Royal Flush"
	case HandStraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", rankWord[lead])
	case HandFourOfKind:
		return fmt.Sprintf("Four of a Kind, %s", rankWords[lead])
	case HandFullHouse:
		if len(tiebreaks) > 1 {
			return fmt.Sprintf("Full House, %s over %s", rankWords[lead], rankWords[tiebreaks[1]])
		}
		return "Full House"
	case HandFlush:
		return fmt.Sprintf("Flush, %s high", rankWord[lead])
	case HandStraight:
		return fmt.Sprintf("Straight, %s high", rankWord[lead])
	case HandThreeOfKind:
		return fmt.Sprintf("Three of a Kind, %s", rankWords[lead])
	case HandTwoPair:
		if len(tiebreaks) > 1 {
			return fmt.Sprintf("Two Pair, %s and %s", rankWords[lead], rankWords[tiebreaks[1]])
		}
		return "Two Pair"
	case HandOnePair:
		return fmt.Sprintf("Pair of %s", rankWords[lead])
	default:
		return fmt.Sprintf("%s High", rankWord[lead])
	}
}
