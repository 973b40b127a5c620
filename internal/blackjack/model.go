package blackjack

import "coin-casino/internal/deck"

const (
	Kind = "blackjack"

	StatePlayerTurn = "player_turn"
	StateGameOver   = "game_over"
)

// session is the persisted payload. The deck is owned by the session and
// only ever shrinks from the end.
type session struct {
	Deck   []deck.Card `json:"deck"`
	Player []deck.Card `json:"player_hand"`
	Dealer []deck.Card `json:"dealer_hand"`
	Bet    int64       `json:"bet_amount"`
	State  string      `json:"state"`
}

type DealResult struct {
	GameID      string      `json:"game_id"`
	PlayerHand  []deck.Card `json:"player_hand"`
	DealerHand  []deck.Card `json:"dealer_hand"`
	PlayerScore int         `json:"player_score"`
	NewBalance  int64       `json:"new_balance"`
}

type HitResult struct {
	GameState   string      `json:"game_state"`
	PlayerHand  []deck.Card `json:"player_hand"`
	PlayerScore int         `json:"player_score"`
}

type StandResult struct {
	Outcome     string      `json:"outcome"`
	GameState   string      `json:"game_state"`
	PlayerHand  []deck.Card `json:"player_hand"`
	PlayerScore int         `json:"player_score"`
	DealerHand  []deck.Card `json:"dealer_hand"`
	DealerScore int         `json:"dealer_score"`
	Payout      int64       `json:"payout"`
	NewBalance  int64       `json:"new_balance"`
}

const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomePush = "push"
	OutcomeBust = "loss_bust"
)
