// internal/game/pattern.go
package game

import (
	"sort"

	"github.com/fanxiao/doudizhu/internal/models"
)

// PatternType tags the closed set of legal combination shapes. Classification
// is exact: a card set maps to exactly one tag or to PatternInvalid, never to
// a choice of decompositions.
type PatternType int

const (
	PatternInvalid PatternType = iota
	PatternSingle
	PatternPair
	PatternTriple
	PatternTripleWithSingle
	PatternTripleWithPair
	PatternStraight
	PatternPairStraight
	PatternPlane
	PatternPlaneWithSingles
	PatternPlaneWithPairs
	PatternFourWithTwoSingles
	PatternFourWithTwoPairs
	PatternBomb
	PatternRocket
)

var patternNames = map[PatternType]string{
	PatternInvalid:            "invalid",
	PatternSingle:             "single",
	PatternPair:               "pair",
	PatternTriple:             "triple",
	PatternTripleWithSingle:   "triple_with_single",
	PatternTripleWithPair:     "triple_with_pair",
	PatternStraight:           "straight",
	PatternPairStraight:       "pair_straight",
	PatternPlane:              "plane",
	PatternPlaneWithSingles:   "plane_with_singles",
	PatternPlaneWithPairs:     "plane_with_pairs",
	PatternFourWithTwoSingles: "four_with_two_singles",
	PatternFourWithTwoPairs:   "four_with_two_pairs",
	PatternBomb:               "bomb",
	PatternRocket:             "rocket",
}

func (t PatternType) String() string {
	if s, ok := patternNames[t]; ok {
		return s
	}
	return "invalid"
}

// Pattern is the classification of one exact card set: its shape tag, the
// primary rank used for comparison, and the exact card count.
type Pattern struct {
	Type  PatternType   `json:"type"`
	Rank  models.Rank   `json:"rank"`
	Count int           `json:"count"`
	Cards []models.Card `json:"cards"`
}

// IsValid reports whether the pattern is a playable combination.
func (p Pattern) IsValid() bool { return p.Type != PatternInvalid }

// analysis buckets a card set by per-rank multiplicity.
type analysis struct {
	counts  map[models.Rank]int
	fours   []models.Rank
	trios   []models.Rank
	pairs   []models.Rank
	singles []models.Rank
}

func analyze(cards []models.Card) analysis {
	a := analysis{counts: models.CountRanks(cards)}
	for r, n := range a.counts {
		switch n {
		case 4:
			a.fours = append(a.fours, r)
		case 3:
			a.trios = append(a.trios, r)
		case 2:
			a.pairs = append(a.pairs, r)
		case 1:
			a.singles = append(a.singles, r)
		}
	}
	sortRanks(a.fours)
	sortRanks(a.trios)
	sortRanks(a.pairs)
	sortRanks(a.singles)
	return a
}

func sortRanks(rs []models.Rank) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Value() < rs[j].Value() })
}

// consecutive reports whether the sorted ranks form an unbroken run that
// stays inside the straight range (3..A).
func consecutive(rs []models.Rank) bool {
	for i, r := range rs {
		if !r.InStraight() {
			return false
		}
		if i > 0 && rs[i].Value() != rs[i-1].Value()+1 {
			return false
		}
	}
	return true
}

// Classify maps a card multiset to its unique pattern, or to a pattern with
// type PatternInvalid. It is pure, deterministic and total for sets of size
// 1..20; it never mutates its input.
func Classify(cards []models.Card) Pattern {
	n := len(cards)
	if n == 0 || n > 20 {
		return Pattern{Type: PatternInvalid, Cards: cards}
	}

	sorted := make([]models.Card, n)
	copy(sorted, cards)
	models.SortCards(sorted)

	a := analyze(sorted)
	mk := func(t PatternType, rank models.Rank) Pattern {
		return Pattern{Type: t, Rank: rank, Count: n, Cards: sorted}
	}

	// Rocket: both jokers, nothing else.
	if n == 2 && a.counts[models.RankSmallJoker] == 1 && a.counts[models.RankBigJoker] == 1 {
		return mk(PatternRocket, models.RankBigJoker)
	}

	// Uniform rank: single, pair, triple, bomb.
	if len(a.counts) == 1 {
		r := sorted[0].Rank
		switch n {
		case 1:
			return mk(PatternSingle, r)
		case 2:
			if r.IsJoker() {
				// Two copies of one joker cannot occur in a legal deck.
				return mk(PatternInvalid, 0)
			}
			return mk(PatternPair, r)
		case 3:
			return mk(PatternTriple, r)
		case 4:
			return mk(PatternBomb, r)
		}
		return mk(PatternInvalid, 0)
	}

	// Triple with an attached single or pair.
	if len(a.trios) == 1 {
		if n == 4 && len(a.singles) == 1 {
			return mk(PatternTripleWithSingle, a.trios[0])
		}
		if n == 5 && len(a.pairs) == 1 {
			return mk(PatternTripleWithPair, a.trios[0])
		}
	}

	// Four with two: the wings are two singles of different ranks or one pair
	// (count 6), or exactly two pairs (count 8).
	if len(a.fours) == 1 {
		if n == 6 && (len(a.singles) == 2 || len(a.pairs) == 1) {
			return mk(PatternFourWithTwoSingles, a.fours[0])
		}
		if n == 8 && len(a.pairs) == 2 {
			return mk(PatternFourWithTwoPairs, a.fours[0])
		}
	}

	// Straight: >=5 consecutive ranks, one card each.
	if n >= 5 && len(a.singles) == n && consecutive(a.singles) {
		return mk(PatternStraight, a.singles[len(a.singles)-1])
	}

	// Pair straight: >=3 consecutive ranks, two cards each.
	if n >= 6 && n%2 == 0 && len(a.pairs)*2 == n && consecutive(a.pairs) {
		return mk(PatternPairStraight, a.pairs[len(a.pairs)-1])
	}

	// Plane: >=2 consecutive triples, optionally with one single or one pair
	// attached per triple. Wing ranks are whatever is left over; by
	// construction they cannot collide with the triple ranks. A triple of 2s
	// can never extend the body (2 sits outside the straight range), so it
	// counts as wing cards instead.
	body := a.trios
	if k := len(body); k > 0 && !body[k-1].InStraight() {
		body = body[:k-1]
	}
	if k := len(body); k >= 2 && consecutive(body) {
		top := body[k-1]
		switch n {
		case 3 * k:
			return mk(PatternPlane, top)
		case 4 * k:
			return mk(PatternPlaneWithSingles, top)
		case 5 * k:
			if len(a.pairs)*2 == n-3*k {
				return mk(PatternPlaneWithPairs, top)
			}
		}
	}

	return mk(PatternInvalid, 0)
}

// Beats reports whether p strictly beats o. It is irreflexive and
// antisymmetric within comparable categories. A false result does not mean o
// beats p: outside the bomb/rocket ladder, patterns with differing tags or
// card counts are simply not comparable.
func (p Pattern) Beats(o Pattern) bool {
	if !p.IsValid() || !o.IsValid() {
		return false
	}
	if p.Type == PatternRocket {
		return o.Type != PatternRocket
	}
	if o.Type == PatternRocket {
		return false
	}
	if p.Type == PatternBomb {
		if o.Type != PatternBomb {
			return true
		}
		return p.Rank.Value() > o.Rank.Value()
	}
	if o.Type == PatternBomb {
		return false
	}
	return p.Type == o.Type && p.Count == o.Count && p.Rank.Value() > o.Rank.Value()
}

// IsBombLike reports whether the pattern doubles the hand multiplier.
func (p Pattern) IsBombLike() bool {
	return p.Type == PatternBomb || p.Type == PatternRocket
}
