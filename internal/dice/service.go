package dice

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"coin-casino/internal/event"
	"coin-casino/internal/fair"
	"coin-casino/internal/monitoring"
)

type Ledger interface {
	Apply(tx *sql.Tx, uid int64, delta int64) (int64, error)
}

type Result struct {
	RollResult float64 `json:"roll_result"`
	IsWin      bool    `json:"is_win"`
	Payout     int64   `json:"payout"`
	NewBalance int64   `json:"new_balance"`
	Hash       string  `json:"hash"`
	Nonce      int     `json:"nonce"`
	SeedHash   string  `json:"server_seed_hash"`
}

type Service struct {
	db     *sql.DB
	ledger Ledger
	bus    *event.Bus
	seeds  *fair.SeedManager

	mu     sync.Mutex
	nonces map[int64]int
}

func New(db *sql.DB, ledger Ledger, bus *event.Bus) *Service {
	return &Service{
		db:     db,
		ledger: ledger,
		bus:    bus,
		seeds:  fair.NewSeedManager(),
		nonces: make(map[int64]int),
	}
}

func (s *Service) nextNonce(uid int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nonces[uid]
	s.nonces[uid]++
	return n
}

// Roll settles a single wager: debit and payout apply in one transaction, so
// the net movement is exactly payout − bet.
func (s *Service) Roll(uid int64, wager Wager, clientSeed string) (*Result, error) {
	if err := wager.Validate(); err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.Apply(tx, uid, -wager.Bet); err != nil {
		tx.Rollback()
		return nil, err
	}

	s.seeds.MaybeRotate()
	serverSeed, seedHash := s.seeds.Current()
	nonce := s.nextNonce(uid)
	roll, hash := fair.Roll(serverSeed, clientSeed, nonce)

	payout := wager.Payout(roll)

	newBalance, err := s.ledger.Apply(tx, uid, payout)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	monitoring.WagersPlaced.WithLabelValues(Kind).Inc()
	monitoring.CoinsWagered.WithLabelValues(Kind).Add(float64(wager.Bet))
	monitoring.CoinsPaidOut.WithLabelValues(Kind).Add(float64(payout))

	details, _ := json.Marshal(wager)
	res, _ := json.Marshal(map[string]any{"roll_result": roll})
	s.bus.Publish(event.EventGameSettled, event.GameSettled{
		UserID:     uid,
		GameType:   Kind,
		BetDetails: details,
		Result:     res,
		NetPayout:  payout - wager.Bet,
	})

	return &Result{
		RollResult: roll,
		IsWin:      payout > 0,
		Payout:     payout,
		NewBalance: newBalance,
		Hash:       hash,
		Nonce:      nonce,
		SeedHash:   seedHash,
	}, nil
}
