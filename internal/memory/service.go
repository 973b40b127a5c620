package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"coin-casino/internal/event"
	"coin-casino/internal/monitoring"
	"coin-casino/internal/svcerr"
)

const (
	Kind = "memory"

	// cashout multiplier base per completed level
	payoutBase = 1.35
)

var colors = []string{"green", "red", "yellow", "blue"}

type Ledger interface {
	Apply(tx *sql.Tx, uid int64, delta int64) (int64, error)
}

type Sessions interface {
	Create(tx *sql.Tx, kind string, uid int64, payload any) (string, error)
	Get(tx *sql.Tx, kind, id string, uid int64, out any) error
	Update(tx *sql.Tx, kind, id string, payload any) error
	Delete(tx *sql.Tx, kind, id string) error
}

// session payload; Level is always len(Sequence).
type session struct {
	Bet      int64    `json:"bet_amount"`
	Sequence []string `json:"sequence"`
	Level    int      `json:"level"`
}

type StartResult struct {
	GameID       string   `json:"game_id"`
	NextSequence []string `json:"next_sequence"`
	Level        int      `json:"level"`
	NewBalance   int64    `json:"new_balance"`
}

type GuessResult struct {
	Result       string   `json:"result"`
	GameState    string   `json:"game_state,omitempty"`
	NextSequence []string `json:"next_sequence,omitempty"`
	Level        int      `json:"level,omitempty"`
}

type CashoutResult struct {
	Payout     int64 `json:"payout"`
	NewBalance int64 `json:"new_balance"`
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

func (s *Service) randomColor() string {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	return colors[s.rng.Intn(len(colors))]
}

// Start debits the bet and opens a level-1 session with a single color.
func (s *Service) Start(uid int64, bet int64) (*StartResult, error) {
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

	seq := []string{s.randomColor()}
	id, err := s.sessions.Create(tx, Kind, uid, session{Bet: bet, Sequence: seq, Level: 1})
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	monitoring.WagersPlaced.WithLabelValues(Kind).Inc()
	monitoring.CoinsWagered.WithLabelValues(Kind).Add(float64(bet))

	return &StartResult{
		GameID:       id,
		NextSequence: seq,
		Level:        1,
		NewBalance:   newBalance,
	}, nil
}

// Guess compares the player's sequence against the stored one. A miss
// forfeits the bet and ends the game; a match grows the sequence by one.
func (s *Service) Guess(gameID string, uid int64, playerSequence []string) (*GuessResult, error) {
	if playerSequence == nil {
		return nil, fmt.Errorf("sequence required: %w", svcerr.ErrInvalidWager)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	var game session
	if err := s.sessions.Get(tx, Kind, gameID, uid, &game); err != nil {
		tx.Rollback()
		return nil, err
	}

	if !sequencesEqual(playerSequence, game.Sequence) {
		if err := s.sessions.Delete(tx, Kind, gameID); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}

		s.settled(uid, game.Bet, -game.Bet, map[string]any{
			"outcome": "incorrect",
			"level":   game.Level,
		})

		return &GuessResult{Result: "incorrect", GameState: "game_over"}, nil
	}

	game.Sequence = append(game.Sequence, s.randomColor())
	game.Level++
	if err := s.sessions.Update(tx, Kind, gameID, game); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &GuessResult{
		Result:       "correct",
		NextSequence: game.Sequence,
		Level:        game.Level,
	}, nil
}

// Cashout pays the exponential curve over completed levels and closes the
// session. A level-1 cashout just returns the stake.
func (s *Service) Cashout(gameID string, uid int64) (*CashoutResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	var game session
	if err := s.sessions.Get(tx, Kind, gameID, uid, &game); err != nil {
		tx.Rollback()
		return nil, err
	}

	payout := Payout(game.Bet, game.Level)

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
		"outcome": "cashout",
		"level":   game.Level,
		"payout":  payout,
	})

	return &CashoutResult{Payout: payout, NewBalance: newBalance}, nil
}

// Payout is floor(bet × 1.35^completed) with the multiplier rounded to two
// decimals before the product is floored. The client computes the same
// figure, so the rounding order must not change.
func Payout(bet int64, level int) int64 {
	completed := level - 1
	if completed <= 0 {
		return bet
	}
	multiplier := math.Pow(payoutBase, float64(completed))
	multiplier = math.Round(multiplier*100) / 100
	return int64(math.Floor(float64(bet) * multiplier))
}

func sequencesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
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
