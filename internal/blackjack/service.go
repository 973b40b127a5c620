package blackjack

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"coin-casino/internal/deck"
	"coin-casino/internal/event"
	"coin-casino/internal/monitoring"
	"coin-casino/internal/svcerr"
)

type Ledger interface {
	Apply(tx *sql.Tx, uid int64, delta int64) (int64, error)
}

type Sessions interface {
	Create(tx *sql.Tx, kind string, uid int64, payload any) (string, error)
	Get(tx *sql.Tx, kind, id string, uid int64, out any) error
	Update(tx *sql.Tx, kind, id string, payload any) error
	Delete(tx *sql.Tx, kind, id string) error
}

type Service struct {
	db       *sql.DB
	ledger   Ledger
	sessions Sessions
	bus      *event.Bus

	rng *rand.Rand
	rmu sync.Mutex
}

func New(db *sql.DB, ledger Ledger, sessions Sessions, bus *event.Bus) *Service {
	return &Service{
		db:       db,
		ledger:   ledger,
		sessions: sessions,
		bus:      bus,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) shuffle(cards []deck.Card) {
	s.rmu.Lock()
	deck.Shuffle(cards, s.rng)
	s.rmu.Unlock()
}

// Deal debits the bet and creates the session in one transaction, so a
// failure after the debit cannot leave the player charged without a game.
func (s *Service) Deal(uid int64, bet int64) (*DealResult, error) {
	if bet <= 0 {
		return nil, fmt.Errorf("bet must be positive: %w", svcerr.ErrInvalidWager)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	newBalance, err := s.ledger.Apply(tx, uid, -bet)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	cards := deck.New()
	s.shuffle(cards)

	player := []deck.Card{draw(&cards), draw(&cards)}
	dealer := []deck.Card{draw(&cards), draw(&cards)}

	id, err := s.sessions.Create(tx, Kind, uid, session{
		Deck:   cards,
		Player: player,
		Dealer: dealer,
		Bet:    bet,
		State:  StatePlayerTurn,
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	monitoring.WagersPlaced.WithLabelValues(Kind).Inc()
	monitoring.CoinsWagered.WithLabelValues(Kind).Add(float64(bet))

	return &DealResult{
		GameID:      id,
		PlayerHand:  player,
		DealerHand:  []deck.Card{dealer[0], {Rank: "?", Suit: "?"}},
		PlayerScore: deck.Score(player),
		NewBalance:  newBalance,
	}, nil
}

// Hit draws one card for the player. A bust settles the game immediately;
// otherwise the advanced deck and hand are persisted in place.
func (s *Service) Hit(gameID string, uid int64) (*HitResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	var game session
	if err := s.sessions.Get(tx, Kind, gameID, uid, &game); err != nil {
		tx.Rollback()
		return nil, err
	}
	if game.State != StatePlayerTurn {
		tx.Rollback()
		return nil, fmt.Errorf("not player turn: %w", svcerr.ErrWrongState)
	}

	game.Player = append(game.Player, draw(&game.Deck))
	score := deck.Score(game.Player)

	if score > 21 {
		if err := s.sessions.Delete(tx, Kind, gameID); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}

		s.settled(uid, game.Bet, -game.Bet, map[string]any{
			"outcome":      OutcomeBust,
			"player_score": score,
			"player_hand":  game.Player,
		})

		return &HitResult{
			GameState:   StateGameOver,
			PlayerHand:  game.Player,
			PlayerScore: score,
		}, nil
	}

	if err := s.sessions.Update(tx, Kind, gameID, game); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &HitResult{
		GameState:   StatePlayerTurn,
		PlayerHand:  game.Player,
		PlayerScore: score,
	}, nil
}

// Stand plays out the dealer and settles. Standing is terminal whatever the
// recorded state, so only existence and ownership are checked.
func (s *Service) Stand(gameID string, uid int64) (*StandResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	var game session
	if err := s.sessions.Get(tx, Kind, gameID, uid, &game); err != nil {
		tx.Rollback()
		return nil, err
	}

	playerScore := deck.Score(game.Player)
	dealerScore := deck.Score(game.Dealer)
	for dealerScore < 17 {
		game.Dealer = append(game.Dealer, draw(&game.Deck))
		dealerScore = deck.Score(game.Dealer)
	}

	var outcome string
	var payout int64
	switch {
	case playerScore > 21:
		outcome = OutcomeBust
	case dealerScore > 21 || playerScore > dealerScore:
		outcome = OutcomeWin
		payout = game.Bet * 2
	case playerScore < dealerScore:
		outcome = OutcomeLoss
	default:
		outcome = OutcomePush
		payout = game.Bet
	}

	newBalance, err := s.ledger.Apply(tx, uid, payout)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.sessions.Delete(tx, Kind, gameID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	monitoring.CoinsPaidOut.WithLabelValues(Kind).Add(float64(payout))

	s.settled(uid, game.Bet, payout-game.Bet, map[string]any{
		"outcome":      outcome,
		"player_score": playerScore,
		"dealer_score": dealerScore,
		"player_hand":  game.Player,
		"dealer_hand":  game.Dealer,
	})

	return &StandResult{
		Outcome:     outcome,
		GameState:   StateGameOver,
		PlayerHand:  game.Player,
		PlayerScore: playerScore,
		DealerHand:  game.Dealer,
		DealerScore: dealerScore,
		Payout:      payout,
		NewBalance:  newBalance,
	}, nil
}

func (s *Service) settled(uid, bet, net int64, result map[string]any) {
	details, _ := json.Marshal(map[string]any{"bet": bet})
	res, _ := json.Marshal(result)

	s.bus.Publish(event.EventGameSettled, event.GameSettled{
		UserID:     uid,
		GameType:   Kind,
		BetDetails: details,
		Result:     res,
		NetPayout:  net,
	})
}

func draw(cards *[]deck.Card) deck.Card {
	c := (*cards)[len(*cards)-1]
	*cards = (*cards)[:len(*cards)-1]
	return c
}
