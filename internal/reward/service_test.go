package reward

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coin-casino/internal/db"
	"coin-casino/internal/event"
	"coin-casino/internal/ledger"
	"coin-casino/internal/svcerr"
)

func newTestService(t *testing.T) (*Service, *ledger.Service, *sql.DB) {
	t.Helper()

	dbc, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	dbc.SetMaxOpenConns(1)
	t.Cleanup(func() { dbc.Close() })
	db.Migrate(dbc)

	led := ledger.New(dbc)
	require.NoError(t, led.EnsureAccount(1, 0))

	svc := New(dbc, led, event.NewBus())
	svc.rng = rand.New(rand.NewSource(5))
	return svc, led, dbc
}

func TestDrawPrizeStaysOnWheel(t *testing.T) {
	svc, _, _ := newTestService(t)

	valid := map[int64]bool{50: true, 100: true, 250: true, 500: true, 1000: true}
	for i := 0; i < 500; i++ {
		require.True(t, valid[svc.drawPrize()])
	}
}

func TestSpinCreditsPrizeOnce(t *testing.T) {
	svc, led, _ := newTestService(t)

	status, err := svc.Status(1)
	require.NoError(t, err)
	require.True(t, status.CanSpin)

	result, err := svc.Spin(1)
	require.NoError(t, err)
	require.Greater(t, result.PrizeWon, int64(0))

	balance, err := led.Balance(1)
	require.NoError(t, err)
	require.Equal(t, result.PrizeWon, balance)

	// inside the cooldown: status closed, spin rejected
	status, err = svc.Status(1)
	require.NoError(t, err)
	require.False(t, status.CanSpin)
	require.NotNil(t, status.NextSpinTime)

	_, err = svc.Spin(1)
	require.ErrorIs(t, err, svcerr.ErrCooldown)

	balance, err = led.Balance(1)
	require.NoError(t, err)
	require.Equal(t, result.PrizeWon, balance)
}

func TestSpinAddsPrizeToExistingBalance(t *testing.T) {
	svc, led, dbc := newTestService(t)

	tx, err := dbc.Begin()
	require.NoError(t, err)
	_, err = led.Apply(tx, 1, 700)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	result, err := svc.Spin(1)
	require.NoError(t, err)
	require.Equal(t, 700+result.PrizeWon, result.NewBalance)

	balance, err := led.Balance(1)
	require.NoError(t, err)
	require.Equal(t, result.NewBalance, balance)
}

func TestSpinUnlocksAfterCooldown(t *testing.T) {
	svc, _, dbc := newTestService(t)

	_, err := svc.Spin(1)
	require.NoError(t, err)

	// age the last spin past the cooldown
	stale := time.Now().Add(-25 * time.Hour).Unix()
	_, err = dbc.Exec(`UPDATE users SET last_reward_spin = ? WHERE id = 1`, stale)
	require.NoError(t, err)

	status, err := svc.Status(1)
	require.NoError(t, err)
	require.True(t, status.CanSpin)

	_, err = svc.Spin(1)
	require.NoError(t, err)
}

func TestSpinUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Spin(99)
	require.ErrorIs(t, err, svcerr.ErrNotFound)

	_, err = svc.Status(99)
	require.ErrorIs(t, err, svcerr.ErrNotFound)
}
