package dice

import (
	"math"

	"coin-casino/internal/svcerr"
)

const (
	Kind = "dice"

	// house edge on the fair multiplier
	houseEdgeMultiplier = 0.99

	minBet    = 1
	minTarget = 1
	maxTarget = 99
)

const (
	ModeUnder = "under"
	ModeOver  = "over"
)

// Wager is a single under/over dice bet. Target doubles as the win chance:
// under wins below target, over wins above 100−target, so both modes carry
// a target% chance by construction.
type Wager struct {
	Bet    int64  `json:"bet"`
	Mode   string `json:"mode"`
	Target int    `json:"target"`
}

func (w Wager) Validate() error {
	if w.Bet < minBet {
		return svcerr.ErrInvalidWager
	}
	if w.Target < minTarget || w.Target > maxTarget {
		return svcerr.ErrInvalidWager
	}
	if w.Mode != ModeUnder && w.Mode != ModeOver {
		return svcerr.ErrInvalidWager
	}
	return nil
}

// Win reports whether roll (2-decimal, in [0,100)) hits the wager.
func (w Wager) Win(roll float64) bool {
	if w.Mode == ModeUnder {
		return roll < float64(w.Target)
	}
	return roll > float64(100-w.Target)
}

// Multiplier is the payout multiplier for the wager's win chance.
func (w Wager) Multiplier() float64 {
	return (100 / float64(w.Target)) * houseEdgeMultiplier
}

// Payout resolves the wager against a roll: floored bet×multiplier on a win,
// zero otherwise.
func (w Wager) Payout(roll float64) int64 {
	if !w.Win(roll) {
		return 0
	}
	return int64(math.Floor(float64(w.Bet) * w.Multiplier()))
}
