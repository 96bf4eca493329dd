// internal/models/card_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdering(t *testing.T) {
	order := []Rank{
		RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight,
		RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
		RankTwo, RankSmallJoker, RankBigJoker,
	}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].Value(), order[i].Value(),
			"%s must rank below %s", order[i-1], order[i])
	}

	// 2 outranks the royals.
	assert.Greater(t, RankTwo.Value(), RankAce.Value())
	assert.Greater(t, RankTwo.Value(), RankKing.Value())
}

func TestRankStraightMembership(t *testing.T) {
	assert.True(t, RankThree.InStraight())
	assert.True(t, RankAce.InStraight())
	assert.False(t, RankTwo.InStraight())
	assert.False(t, RankSmallJoker.InStraight())
	assert.False(t, RankBigJoker.InStraight())
}

func TestRankIsJoker(t *testing.T) {
	assert.True(t, RankSmallJoker.IsJoker())
	assert.True(t, RankBigJoker.IsJoker())
	assert.False(t, RankTwo.IsJoker())
}

func TestSortCardsStable(t *testing.T) {
	cards := []Card{
		{Rank: RankTwo, Suit: SuitSpade},
		{Rank: RankThree, Suit: SuitHeart},
		{Rank: RankThree, Suit: SuitSpade},
		{Rank: RankBigJoker, Suit: SuitJoker},
		{Rank: RankAce, Suit: SuitClub},
	}
	SortCards(cards)

	assert.Equal(t, RankThree, cards[0].Rank)
	assert.Equal(t, SuitHeart, cards[0].Suit, "equal ranks keep input order")
	assert.Equal(t, RankThree, cards[1].Rank)
	assert.Equal(t, RankAce, cards[2].Rank)
	assert.Equal(t, RankTwo, cards[3].Rank)
	assert.Equal(t, RankBigJoker, cards[4].Rank)
}

func TestCountRanks(t *testing.T) {
	cards := []Card{
		{Rank: RankKing, Suit: SuitSpade},
		{Rank: RankKing, Suit: SuitHeart},
		{Rank: RankFive, Suit: SuitDiamond},
	}
	counts := CountRanks(cards)
	assert.Equal(t, 2, counts[RankKing])
	assert.Equal(t, 1, counts[RankFive])
	assert.Zero(t, counts[RankAce])
}

func TestSeatHoldsAll(t *testing.T) {
	s := &Seat{Hand: []Card{
		{Rank: RankFive, Suit: SuitSpade},
		{Rank: RankFive, Suit: SuitHeart},
		{Rank: RankNine, Suit: SuitClub},
	}}

	assert.True(t, s.HoldsAll([]Card{{Rank: RankFive, Suit: SuitSpade}}))
	assert.True(t, s.HoldsAll([]Card{
		{Rank: RankFive, Suit: SuitSpade},
		{Rank: RankFive, Suit: SuitHeart},
	}))

	// Multiset semantics: holding one copy does not cover a request for two.
	assert.False(t, s.HoldsAll([]Card{
		{Rank: RankNine, Suit: SuitClub},
		{Rank: RankNine, Suit: SuitClub},
	}))
	assert.False(t, s.HoldsAll([]Card{{Rank: RankFive, Suit: SuitDiamond}}))
}

func TestSeatRemoveCards(t *testing.T) {
	s := &Seat{Hand: []Card{
		{Rank: RankFive, Suit: SuitSpade},
		{Rank: RankFive, Suit: SuitHeart},
		{Rank: RankNine, Suit: SuitClub},
	}}

	s.RemoveCards([]Card{{Rank: RankFive, Suit: SuitHeart}})
	require.Len(t, s.Hand, 2)
	assert.Contains(t, s.Hand, Card{Rank: RankFive, Suit: SuitSpade})
	assert.Contains(t, s.Hand, Card{Rank: RankNine, Suit: SuitClub})
	assert.NotContains(t, s.Hand, Card{Rank: RankFive, Suit: SuitHeart})
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "♠A", Card{Rank: RankAce, Suit: SuitSpade}.String())
	assert.Equal(t, "joker", Card{Rank: RankSmallJoker, Suit: SuitJoker}.String())
	assert.Equal(t, "JOKER", Card{Rank: RankBigJoker, Suit: SuitJoker}.String())
}
