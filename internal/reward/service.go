package reward

import (
	"database/sql"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"coin-casino/internal/event"
	"coin-casino/internal/svcerr"
)

const cooldown = 24 * time.Hour

// prize wheel, weights out of 100
var prizes = []struct {
	Prize  int64
	Weight int
}{
	{50, 40},
	{100, 30},
	{250, 15},
	{500, 10},
	{1000, 5},
}

type Status struct {
	CanSpin      bool   `json:"can_spin"`
	NextSpinTime *int64 `json:"next_spin_time,omitempty"`
}

type SpinResult struct {
	PrizeWon   int64 `json:"prize_won"`
	NewBalance int64 `json:"new_balance"`
}

type Ledger interface {
	Apply(tx *sql.Tx, uid int64, delta int64) (int64, error)
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

// Status reports whether the free daily spin is available and when the next
// one unlocks.
func (s *Service) Status(uid int64) (*Status, error) {
	lastSpin, err := s.lastSpin(uid)
	if err != nil {
		return nil, err
	}

	if lastSpin == nil || time.Since(*lastSpin) >= cooldown {
		return &Status{CanSpin: true}, nil
	}
	next := lastSpin.Add(cooldown).Unix()
	return &Status{CanSpin: false, NextSpinTime: &next}, nil
}

// Spin claims the daily prize. The cooldown check and the credit share one
// transaction, so two racing spins cannot both collect.
func (s *Service) Spin(uid int64) (*SpinResult, error) {
	now := time.Now()
	prize := s.drawPrize()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	var last sql.NullInt64
	err = tx.QueryRow(`
	SELECT last_reward_spin FROM users WHERE id = ?
	`, uid).Scan(&last)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, fmt.Errorf("user %d: %w", uid, svcerr.ErrNotFound)
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if last.Valid && now.Sub(time.Unix(last.Int64, 0)) < cooldown {
		tx.Rollback()
		return nil, fmt.Errorf("daily spin already claimed: %w", svcerr.ErrCooldown)
	}

	if _, err := tx.Exec(`
	UPDATE users SET last_reward_spin = ? WHERE id = ?
	`, now.Unix(), uid); err != nil {
		tx.Rollback()
		return nil, err
	}

	newBalance, err := s.ledger.Apply(tx, uid, prize)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.bus.Publish(event.EventRewardClaimed, map[string]any{
		"uid":   uid,
		"prize": prize,
	})

	return &SpinResult{PrizeWon: prize, NewBalance: newBalance}, nil
}

func (s *Service) drawPrize() int64 {
	s.rmu.Lock()
	defer s.rmu.Unlock()

	totalWeight := 0
	for _, p := range prizes {
		totalWeight += p.Weight
	}

	n := s.rng.Intn(totalWeight)
	for _, p := range prizes {
		if n < p.Weight {
			return p.Prize
		}
		n -= p.Weight
	}
	return prizes[0].Prize
}

func (s *Service) lastSpin(uid int64) (*time.Time, error) {
	var last sql.NullInt64
	err := s.db.QueryRow(`SELECT last_reward_spin FROM users WHERE id = ?`, uid).Scan(&last)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", uid, svcerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	t := time.Unix(last.Int64, 0)
	return &t, nil
}
