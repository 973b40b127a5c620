package ledger

import (
	"database/sql"
	"fmt"

	"coin-casino/internal/svcerr"
)

// Service is the single authority over user coin balances. Every balance
// change goes through Apply as one guarded UPDATE, so concurrent wagers on
// the same account can never jointly overdraw it.
type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Balance(uid int64) (int64, error) {
	var coins int64
	err := s.db.QueryRow(`SELECT coins FROM users WHERE id = ?`, uid).Scan(&coins)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("user %d: %w", uid, svcerr.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return coins, nil
}

// Apply adds a signed delta to the account inside the caller's transaction.
// The balance guard lives in the UPDATE itself, not in a prior read.
func (s *Service) Apply(tx *sql.Tx, uid int64, delta int64) (int64, error) {
	res, err := tx.Exec(`
	UPDATE users SET coins = coins + ?
	WHERE id = ? AND coins + ? >= 0
	`, delta, uid, delta)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM users WHERE id = ?`, uid).Scan(&exists)
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("user %d: %w", uid, svcerr.ErrNotFound)
		}
		if err != nil {
			return 0, err
		}
		return 0, svcerr.ErrInsufficientFunds
	}

	var coins int64
	if err := tx.QueryRow(`SELECT coins FROM users WHERE id = ?`, uid).Scan(&coins); err != nil {
		return 0, err
	}
	return coins, nil
}

// EnsureAccount creates the account row if missing. Registration proper is
// external; games only need the row to exist.
func (s *Service) EnsureAccount(uid int64, initial int64) error {
	_, err := s.db.Exec(`
	INSERT INTO users(id, coins) VALUES (?, ?)
	ON CONFLICT(id) DO NOTHING
	`, uid, initial)
	return err
}
