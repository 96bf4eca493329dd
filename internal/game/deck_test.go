// internal/game/deck_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanxiao/doudizhu/internal/models"
)

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	seen := map[models.Card]int{}
	for _, c := range deck {
		seen[c]++
	}
	assert.Len(t, seen, DeckSize, "every card must be unique")

	counts := models.CountRanks(deck)
	for r := models.RankThree; r <= models.RankTwo; r++ {
		assert.Equalf(t, 4, counts[r], "rank %s", r)
	}
	assert.Equal(t, 1, counts[models.RankSmallJoker])
	assert.Equal(t, 1, counts[models.RankBigJoker])
}

func TestPartitionProperties(t *testing.T) {
	// Shuffling is random; run the property over many deals.
	for i := 0; i < 100; i++ {
		hands, bottom := Partition(NewShuffledDeck())

		require.Len(t, bottom, BottomSize)
		seen := map[models.Card]int{}
		for _, h := range hands {
			require.Len(t, h, HandSize)
			for _, c := range h {
				seen[c]++
			}
		}
		for _, c := range bottom {
			seen[c]++
		}
		require.Len(t, seen, DeckSize, "hands and bottom must cover the deck with no duplicates")
		for c, n := range seen {
			require.Equalf(t, 1, n, "card %s dealt %d times", c, n)
		}
	}
}

func TestPartitionHandsSorted(t *testing.T) {
	hands, _ := Partition(NewShuffledDeck())
	for _, h := range hands {
		for i := 1; i < len(h); i++ {
			assert.LessOrEqual(t, h[i-1].Rank.Value(), h[i].Rank.Value())
		}
	}
}
