// internal/game/deck.go
package game

import (
	"math/rand"
	"time"

	"github.com/fanxiao/doudizhu/internal/models"
)

// DeckSize is the full Dou Dizhu deck: 13 ranks x 4 suits + 2 jokers.
const DeckSize = 54

// HandSize is each seat's deal before the bottom is claimed.
const HandSize = 17

// BottomSize is the face-down remainder awarded to the landlord.
const BottomSize = 3

// NewDeck returns the fixed 54-card set in canonical order.
func NewDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for suit := models.SuitSpade; suit <= models.SuitClub; suit++ {
		for r := models.RankThree; r <= models.RankTwo; r++ {
			deck = append(deck, models.Card{Rank: r, Suit: suit})
		}
	}
	deck = append(deck,
		models.Card{Rank: models.RankSmallJoker, Suit: models.SuitJoker},
		models.Card{Rank: models.RankBigJoker, Suit: models.SuitJoker},
	)
	return deck
}

// NewShuffledDeck returns a fresh deck permuted uniformly at random.
func NewShuffledDeck() []models.Card {
	deck := NewDeck()
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// Partition splits a full deck into three sorted 17-card hands and the 3-card
// bottom, consuming every card.
func Partition(deck []models.Card) (hands [3][]models.Card, bottom []models.Card) {
	for i := 0; i < 3; i++ {
		hand := make([]models.Card, HandSize)
		copy(hand, deck[i*HandSize:(i+1)*HandSize])
		models.SortCards(hand)
		hands[i] = hand
	}
	bottom = make([]models.Card, BottomSize)
	copy(bottom, deck[3*HandSize:])
	models.SortCards(bottom)
	return hands, bottom
}
