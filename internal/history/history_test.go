package history

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"coin-casino/internal/db"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dbc, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	dbc.SetMaxOpenConns(1)
	t.Cleanup(func() { dbc.Close() })
	db.Migrate(dbc)

	return New(dbc)
}

func TestAppendAndRecent(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 20; i++ {
		svc.Append(Record{
			UserID:     1,
			GameType:   "dice",
			BetDetails: json.RawMessage(`{"bet":10}`),
			Result:     json.RawMessage(`{"roll_result":42.5}`),
			NetPayout:  int64(i),
		})
	}
	svc.Append(Record{
		UserID:     1,
		GameType:   "roulette",
		BetDetails: json.RawMessage(`{"red":10}`),
		Result:     json.RawMessage(`{"winning_number":7}`),
		NetPayout:  10,
	})

	records, err := svc.Recent("dice", 15)
	require.NoError(t, err)
	require.Len(t, records, 15)
	for _, rec := range records {
		require.Equal(t, "dice", rec.GameType)
	}
	// newest first
	require.Equal(t, int64(19), records[0].NetPayout)

	records, err = svc.Recent("roulette", 15)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, int64(10), records[0].NetPayout)

	records, err = svc.Recent("blackjack", 15)
	require.NoError(t, err)
	require.Empty(t, records)
}
