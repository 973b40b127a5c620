package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"coin-casino/internal/svcerr"
)

// Store persists one active game session per (user, kind) as a JSON payload
// row. Lookups are scoped by id and owner; a session another user created is
// indistinguishable from a missing one.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new session inside the caller's transaction, so the bet
// debit and the session row commit or roll back together. A live session of
// the same kind for the user is a conflict.
func (s *Store) Create(tx *sql.Tx, kind string, uid int64, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	_, err = tx.Exec(`
	INSERT INTO game_sessions(id, user_id, kind, payload, created_at)
	VALUES (?,?,?,?,?)
	`, id, uid, kind, string(raw), time.Now().Unix())

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", fmt.Errorf("active %s game already exists: %w", kind, svcerr.ErrConflict)
		}
		return "", err
	}
	return id, nil
}

func (s *Store) Get(tx *sql.Tx, kind, id string, uid int64, out any) error {
	var raw string
	err := tx.QueryRow(`
	SELECT payload FROM game_sessions
	WHERE id = ? AND user_id = ? AND kind = ?
	`, id, uid, kind).Scan(&raw)

	if err == sql.ErrNoRows {
		return fmt.Errorf("%s session %s: %w", kind, id, svcerr.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *Store) Update(tx *sql.Tx, kind, id string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	res, err := tx.Exec(`
	UPDATE game_sessions SET payload = ?
	WHERE id = ? AND kind = ?
	`, string(raw), id, kind)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s session %s: %w", kind, id, svcerr.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(tx *sql.Tx, kind, id string) error {
	_, err := tx.Exec(`
	DELETE FROM game_sessions WHERE id = ? AND kind = ?
	`, id, kind)
	return err
}
