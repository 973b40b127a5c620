package history

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coin-casino/internal/logger"
)

// Record is one settled wager. NetPayout is what the ledger moved overall:
// positive for a player profit, negative for a loss, zero for a push.
type Record struct {
	UserID     int64           `json:"user_id"`
	GameType   string          `json:"game_type"`
	BetDetails json.RawMessage `json:"bet_details"`
	Result     json.RawMessage `json:"result"`
	NetPayout  int64           `json:"net_payout"`
	CreatedAt  int64           `json:"created_at"`
}

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// Append stores a settled game. Best effort: a failed write is logged, never
// surfaced, since the payout it describes has already been committed.
func (s *Service) Append(rec Record) {
	ref := uuid.New().String()

	_, err := s.db.Exec(`
	INSERT INTO game_history(ref, user_id, game_type, bet_details, result, payout, created_at)
	VALUES (?,?,?,?,?,?,?)
	`, ref, rec.UserID, rec.GameType, string(rec.BetDetails), string(rec.Result), rec.NetPayout, time.Now().Unix())

	if err != nil {
		logger.Log.Warn("history append failed",
			zap.Int64("uid", rec.UserID),
			zap.String("game", rec.GameType),
			zap.Error(err))
	}
}

// Recent returns the latest n results for a game type, newest first.
func (s *Service) Recent(gameType string, n int) ([]Record, error) {
	rows, err := s.db.Query(`
	SELECT user_id, game_type, bet_details, result, payout, created_at
	FROM game_history WHERE game_type = ?
	ORDER BY created_at DESC, id DESC LIMIT ?
	`, gameType, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var details, result string
		if err := rows.Scan(&rec.UserID, &rec.GameType, &details, &result, &rec.NetPayout, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.BetDetails = json.RawMessage(details)
		rec.Result = json.RawMessage(result)
		out = append(out, rec)
	}
	return out, rows.Err()
}
