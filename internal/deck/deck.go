package deck

import "math/rand"

type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

var (
	suits = []string{"♥", "♦", "♣", "♠"}
	ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
)

// New builds the standard 52-card deck in suit-then-rank order.
func New() []Card {
	cards := make([]Card, 0, 52)
	for _, suit := range suits {
		for _, rank := range ranks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return cards
}

// Shuffle permutes the deck in place with a Fisher-Yates pass, uniform over
// all permutations given a uniform source.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Value is the blackjack value of a rank. Aces count 11 here; Score demotes
// them as needed.
func Value(rank string) int {
	switch rank {
	case "J", "Q", "K":
		return 10
	case "A":
		return 11
	case "10":
		return 10
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return int(rank[0] - '0')
	}
	return 0
}

// Score totals a hand, demoting soft aces from 11 to 1 while the hand busts.
func Score(hand []Card) int {
	score := 0
	aces := 0
	for _, card := range hand {
		score += Value(card.Rank)
		if card.Rank == "A" {
			aces++
		}
	}
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score
}
