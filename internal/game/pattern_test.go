// internal/game/pattern_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanxiao/doudizhu/internal/models"
)

// hand builds a card set from ranks, assigning suits by occurrence so the
// result is always a legal subset of the 54-card universe.
func hand(ranks ...models.Rank) []models.Card {
	seen := map[models.Rank]int{}
	out := make([]models.Card, 0, len(ranks))
	for _, r := range ranks {
		suit := models.Suit(seen[r])
		if r.IsJoker() {
			suit = models.SuitJoker
		}
		seen[r]++
		out = append(out, models.Card{Rank: r, Suit: suit})
	}
	return out
}

func TestClassifyBasicShapes(t *testing.T) {
	tests := []struct {
		name     string
		cards    []models.Card
		wantType PatternType
		wantRank models.Rank
	}{
		{"single three", hand(models.RankThree), PatternSingle, models.RankThree},
		{"single big joker", hand(models.RankBigJoker), PatternSingle, models.RankBigJoker},
		{"pair of aces", hand(models.RankAce, models.RankAce), PatternPair, models.RankAce},
		{"triple threes", hand(models.RankThree, models.RankThree, models.RankThree), PatternTriple, models.RankThree},
		{"bomb of fours", hand(models.RankFour, models.RankFour, models.RankFour, models.RankFour), PatternBomb, models.RankFour},
		{"rocket", hand(models.RankSmallJoker, models.RankBigJoker), PatternRocket, models.RankBigJoker},
		{"triple with single", hand(models.RankSeven, models.RankSeven, models.RankSeven, models.RankThree), PatternTripleWithSingle, models.RankSeven},
		{"triple with pair", hand(models.RankSeven, models.RankSeven, models.RankSeven, models.RankNine, models.RankNine), PatternTripleWithPair, models.RankSeven},
		{"four with two singles", hand(models.RankFive, models.RankFive, models.RankFive, models.RankFive, models.RankThree, models.RankEight), PatternFourWithTwoSingles, models.RankFive},
		{"four with pair wing", hand(models.RankFive, models.RankFive, models.RankFive, models.RankFive, models.RankEight, models.RankEight), PatternFourWithTwoSingles, models.RankFive},
		{"four with two pairs", hand(models.RankFive, models.RankFive, models.RankFive, models.RankFive, models.RankEight, models.RankEight, models.RankNine, models.RankNine), PatternFourWithTwoPairs, models.RankFive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify(tt.cards)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, tt.wantRank, p.Rank)
			assert.Equal(t, len(tt.cards), p.Count)
		})
	}
}

func TestClassifyStraightFamily(t *testing.T) {
	tests := []struct {
		name     string
		cards    []models.Card
		wantType PatternType
		wantRank models.Rank
	}{
		{"straight 3-7", hand(models.RankThree, models.RankFour, models.RankFive, models.RankSix, models.RankSeven), PatternStraight, models.RankSeven},
		{"straight 10-A", hand(models.RankTen, models.RankJack, models.RankQueen, models.RankKing, models.RankAce), PatternStraight, models.RankAce},
		{"full twelve card straight", hand(models.RankThree, models.RankFour, models.RankFive, models.RankSix, models.RankSeven, models.RankEight, models.RankNine, models.RankTen, models.RankJack, models.RankQueen, models.RankKing, models.RankAce), PatternStraight, models.RankAce},
		{"pair straight", hand(models.RankThree, models.RankThree, models.RankFour, models.RankFour, models.RankFive, models.RankFive), PatternPairStraight, models.RankFive},
		{"plane", hand(models.RankThree, models.RankThree, models.RankThree, models.RankFour, models.RankFour, models.RankFour), PatternPlane, models.RankFour},
		{"plane with singles", hand(models.RankThree, models.RankThree, models.RankThree, models.RankFour, models.RankFour, models.RankFour, models.RankNine, models.RankTen), PatternPlaneWithSingles, models.RankFour},
		{"plane with pair split as wings", hand(models.RankThree, models.RankThree, models.RankThree, models.RankFour, models.RankFour, models.RankFour, models.RankNine, models.RankNine), PatternPlaneWithSingles, models.RankFour},
		{"plane with pairs", hand(models.RankThree, models.RankThree, models.RankThree, models.RankFour, models.RankFour, models.RankFour, models.RankNine, models.RankNine, models.RankTen, models.RankTen), PatternPlaneWithPairs, models.RankFour},
		{"KKKAAA is a plane", hand(models.RankKing, models.RankKing, models.RankKing, models.RankAce, models.RankAce, models.RankAce), PatternPlane, models.RankAce},
		{"plane with triple of twos as wings", hand(models.RankThree, models.RankThree, models.RankThree, models.RankFour, models.RankFour, models.RankFour, models.RankFive, models.RankFive, models.RankFive, models.RankTwo, models.RankTwo, models.RankTwo), PatternPlaneWithSingles, models.RankFive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify(tt.cards)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, tt.wantRank, p.Rank)
		})
	}
}

func TestClassifyRejections(t *testing.T) {
	tests := []struct {
		name  string
		cards []models.Card
	}{
		{"empty", nil},
		{"straight with a two", hand(models.RankJack, models.RankQueen, models.RankKing, models.RankAce, models.RankTwo)},
		{"straight with a gap", hand(models.RankThree, models.RankFour, models.RankSix, models.RankSeven, models.RankEight)},
		{"four card straight", hand(models.RankThree, models.RankFour, models.RankFive, models.RankSix)},
		{"two pair straight", hand(models.RankThree, models.RankThree, models.RankFour, models.RankFour)},
		{"pair straight over aces", hand(models.RankAce, models.RankAce, models.RankTwo, models.RankTwo, models.RankThree, models.RankThree)},
		{"aaa222 is not a plane", hand(models.RankAce, models.RankAce, models.RankAce, models.RankTwo, models.RankTwo, models.RankTwo)},
		{"two triples with triple of twos leftover", hand(models.RankThree, models.RankThree, models.RankThree, models.RankFour, models.RankFour, models.RankFour, models.RankTwo, models.RankTwo, models.RankTwo)},
		{"non-adjacent triples", hand(models.RankThree, models.RankThree, models.RankThree, models.RankFive, models.RankFive, models.RankFive)},
		{"triple with two singles", hand(models.RankSeven, models.RankSeven, models.RankSeven, models.RankThree, models.RankFour)},
		{"joker pair is not a pair", hand(models.RankSmallJoker, models.RankSmallJoker)},
		{"garbage", hand(models.RankThree, models.RankFive, models.RankNine)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify(tt.cards)
			assert.Equal(t, PatternInvalid, p.Type)
			assert.False(t, p.IsValid())
		})
	}
}

// The classifier must be pure: same input, same output, input untouched.
func TestClassifyDeterministic(t *testing.T) {
	cards := hand(models.RankNine, models.RankThree, models.RankNine, models.RankNine, models.RankFour)
	orig := append([]models.Card(nil), cards...)

	first := Classify(cards)
	for i := 0; i < 50; i++ {
		again := Classify(cards)
		require.Equal(t, first.Type, again.Type)
		require.Equal(t, first.Rank, again.Rank)
		require.Equal(t, first.Count, again.Count)
	}
	assert.Equal(t, orig, cards, "Classify must not reorder the caller's slice")
}

func TestBeatsLadder(t *testing.T) {
	triple3 := Classify(hand(models.RankThree, models.RankThree, models.RankThree))
	triple9 := Classify(hand(models.RankNine, models.RankNine, models.RankNine))
	pairAces := Classify(hand(models.RankAce, models.RankAce))
	bomb4 := Classify(hand(models.RankFour, models.RankFour, models.RankFour, models.RankFour))
	bomb2 := Classify(hand(models.RankTwo, models.RankTwo, models.RankTwo, models.RankTwo))
	rocket := Classify(hand(models.RankSmallJoker, models.RankBigJoker))

	// Same category, same count: rank decides.
	assert.True(t, triple9.Beats(triple3))
	assert.False(t, triple3.Beats(triple9))

	// Differing categories outside the bomb ladder are not comparable either way.
	assert.False(t, triple3.Beats(pairAces))
	assert.False(t, pairAces.Beats(triple3))

	// Bombs beat everything below, rank-ordered among themselves.
	assert.True(t, bomb4.Beats(triple3))
	assert.True(t, bomb4.Beats(pairAces))
	assert.True(t, bomb2.Beats(bomb4))
	assert.False(t, bomb4.Beats(bomb2))

	// Rocket beats every bomb; nothing beats the rocket.
	assert.True(t, rocket.Beats(bomb2))
	assert.False(t, bomb2.Beats(rocket))
	assert.False(t, triple9.Beats(rocket))

	// Irreflexive.
	assert.False(t, triple3.Beats(triple3))
	assert.False(t, bomb4.Beats(bomb4))
	assert.False(t, rocket.Beats(rocket))
}

func TestBeatsLengthMismatch(t *testing.T) {
	short := Classify(hand(models.RankThree, models.RankFour, models.RankFive, models.RankSix, models.RankSeven))
	long := Classify(hand(models.RankFour, models.RankFive, models.RankSix, models.RankSeven, models.RankEight, models.RankNine))
	require.Equal(t, PatternStraight, short.Type)
	require.Equal(t, PatternStraight, long.Type)

	// A longer straight never beats a shorter one or vice versa.
	assert.False(t, long.Beats(short))
	assert.False(t, short.Beats(long))
}

func TestBeatsPlaneTagsDistinct(t *testing.T) {
	plane := Classify(hand(models.RankFive, models.RankFive, models.RankFive, models.RankSix, models.RankSix, models.RankSix))
	winged := Classify(hand(models.RankSeven, models.RankSeven, models.RankSeven, models.RankEight, models.RankEight, models.RankEight, models.RankThree, models.RankFour))
	require.Equal(t, PatternPlane, plane.Type)
	require.Equal(t, PatternPlaneWithSingles, winged.Type)

	assert.False(t, winged.Beats(plane))
	assert.False(t, plane.Beats(winged))
}
