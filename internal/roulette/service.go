package roulette

import (
	"database/sql"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"coin-casino/internal/event"
	"coin-casino/internal/monitoring"
)

const Kind = "roulette"

type Ledger interface {
	Apply(tx *sql.Tx, uid int64, delta int64) (int64, error)
}

type Result struct {
	WinningNumber int   `json:"winning_number"`
	Payout        int64 `json:"payout"`
	NewBalance    int64 `json:"new_balance"`
}

type Service struct {
	db     *sql.DB
	ledger Ledger
	bus    *event.Bus

	rng *rand.Rand
	rmu sync.Mutex
}

func New(db *sql.DB, ledger Ledger, bus *event.Bus) *Service {
	return &Service{
		db:     db,
		ledger: ledger,
		bus:    bus,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) spinWheel() int {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	return s.rng.Intn(37)
}

// Spin settles a whole bet map in one transaction: the total stake debits,
// the winning keys pay back, and the net movement is payout − total.
func (s *Service) Spin(uid int64, rawBets map[string]int64) (*Result, error) {
	bets, err := ParseBets(rawBets)
	if err != nil {
		return nil, err
	}
	total := TotalStake(bets)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.Apply(tx, uid, -total); err != nil {
		tx.Rollback()
		return nil, err
	}

	winning := s.spinWheel()
	payout := Winnings(winning, bets)

	newBalance, err := s.ledger.Apply(tx, uid, payout)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	monitoring.WagersPlaced.WithLabelValues(Kind).Inc()
	monitoring.CoinsWagered.WithLabelValues(Kind).Add(float64(total))
	monitoring.CoinsPaidOut.WithLabelValues(Kind).Add(float64(payout))

	details, _ := json.Marshal(rawBets)
	res, _ := json.Marshal(map[string]any{"winning_number": winning})
	s.bus.Publish(event.EventGameSettled, event.GameSettled{
		UserID:     uid,
		GameType:   Kind,
		BetDetails: details,
		Result:     res,
		NetPayout:  payout - total,
	})

	return &Result{
		WinningNumber: winning,
		Payout:        payout,
		NewBalance:    newBalance,
	}, nil
}
