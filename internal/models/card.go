// internal/models/card.go
package models

import "sort"

// Rank is a card's point value. Values are strictly increasing in Dou Dizhu
// order: 3 is lowest, then 4..10, J, Q, K, A, 2, small joker, big joker.
type Rank int

const (
	RankThree Rank = iota + 3
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
	RankTwo
	RankSmallJoker
	RankBigJoker
)

// Value returns the comparison value for the rank. It is the identity today,
// but callers must never rely on that; ordering is the only contract.
func (r Rank) Value() int { return int(r) }

// IsJoker reports whether the rank is one of the two jokers.
func (r Rank) IsJoker() bool { return r == RankSmallJoker || r == RankBigJoker }

// InStraight reports whether the rank may participate in a straight, pair
// straight or plane body. 2 and the jokers never chain.
func (r Rank) InStraight() bool { return r <= RankAce }

var rankNames = map[Rank]string{
	RankThree: "3", RankFour: "4", RankFive: "5", RankSix: "6",
	RankSeven: "7", RankEight: "8", RankNine: "9", RankTen: "10",
	RankJack: "J", RankQueen: "Q", RankKing: "K", RankAce: "A",
	RankTwo: "2", RankSmallJoker: "joker", RankBigJoker: "JOKER",
}

func (r Rank) String() string {
	if s, ok := rankNames[r]; ok {
		return s
	}
	return "?"
}

// Suit is one of the four French suits, or SuitJoker for the two jokers.
// Suit never affects legality or comparison, only display.
type Suit int

const (
	SuitSpade Suit = iota
	SuitHeart
	SuitDiamond
	SuitClub
	SuitJoker
)

var suitNames = [...]string{"♠", "♥", "♦", "♣", ""}

func (s Suit) String() string {
	if s >= 0 && int(s) < len(suitNames) {
		return suitNames[s]
	}
	return "?"
}

// Card is a pure value: two cards are the same card iff rank and suit match.
// A card's existence is scoped to one hand; there is no owning object.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	if c.Rank.IsJoker() {
		return c.Rank.String()
	}
	return c.Suit.String() + c.Rank.String()
}

// SortCards orders cards by ascending rank value in place. Suit order within a
// rank is left as-is; it never matters.
func SortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Rank.Value() < cards[j].Rank.Value()
	})
}

// CountRanks tallies how many cards of each rank appear in the set.
func CountRanks(cards []Card) map[Rank]int {
	counts := make(map[Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}
