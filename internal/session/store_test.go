package session

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"coin-casino/internal/db"
	"coin-casino/internal/svcerr"
)

type payload struct {
	Bet   int64    `json:"bet"`
	Cards []string `json:"cards"`
}

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	dbc, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	dbc.SetMaxOpenConns(1)
	t.Cleanup(func() { dbc.Close() })
	db.Migrate(dbc)

	return New(dbc), dbc
}

func inTx(t *testing.T, dbc *sql.DB, fn func(tx *sql.Tx) error) error {
	t.Helper()

	tx, err := dbc.Begin()
	require.NoError(t, err)
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	require.NoError(t, tx.Commit())
	return nil
}

func TestCreateGetRoundTrip(t *testing.T) {
	store, dbc := newTestStore(t)

	var id string
	err := inTx(t, dbc, func(tx *sql.Tx) error {
		var err error
		id, err = store.Create(tx, "blackjack", 1, payload{Bet: 50, Cards: []string{"A", "K"}})
		return err
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var got payload
	err = inTx(t, dbc, func(tx *sql.Tx) error {
		return store.Get(tx, "blackjack", id, 1, &got)
	})
	require.NoError(t, err)
	require.Equal(t, payload{Bet: 50, Cards: []string{"A", "K"}}, got)
}

func TestGetEnforcesOwnershipAndKind(t *testing.T) {
	store, dbc := newTestStore(t)

	var id string
	inTx(t, dbc, func(tx *sql.Tx) error {
		var err error
		id, err = store.Create(tx, "blackjack", 1, payload{Bet: 50})
		return err
	})

	var got payload
	err := inTx(t, dbc, func(tx *sql.Tx) error {
		return store.Get(tx, "blackjack", id, 2, &got)
	})
	require.ErrorIs(t, err, svcerr.ErrNotFound)

	err = inTx(t, dbc, func(tx *sql.Tx) error {
		return store.Get(tx, "memory", id, 1, &got)
	})
	require.ErrorIs(t, err, svcerr.ErrNotFound)
}

func TestSecondSessionSameKindConflicts(t *testing.T) {
	store, dbc := newTestStore(t)

	inTx(t, dbc, func(tx *sql.Tx) error {
		_, err := store.Create(tx, "blackjack", 1, payload{Bet: 50})
		return err
	})

	err := inTx(t, dbc, func(tx *sql.Tx) error {
		_, err := store.Create(tx, "blackjack", 1, payload{Bet: 60})
		return err
	})
	require.ErrorIs(t, err, svcerr.ErrConflict)

	// a different kind for the same user is fine
	err = inTx(t, dbc, func(tx *sql.Tx) error {
		_, err := store.Create(tx, "memory", 1, payload{Bet: 60})
		return err
	})
	require.NoError(t, err)
}

func TestUpdatePersistsNewPayload(t *testing.T) {
	store, dbc := newTestStore(t)

	var id string
	inTx(t, dbc, func(tx *sql.Tx) error {
		var err error
		id, err = store.Create(tx, "memory", 1, payload{Bet: 50, Cards: []string{"red"}})
		return err
	})

	err := inTx(t, dbc, func(tx *sql.Tx) error {
		return store.Update(tx, "memory", id, payload{Bet: 50, Cards: []string{"red", "blue"}})
	})
	require.NoError(t, err)

	var got payload
	inTx(t, dbc, func(tx *sql.Tx) error {
		return store.Get(tx, "memory", id, 1, &got)
	})
	require.Equal(t, []string{"red", "blue"}, got.Cards)
}

func TestUpdateMissingSession(t *testing.T) {
	store, dbc := newTestStore(t)

	err := inTx(t, dbc, func(tx *sql.Tx) error {
		return store.Update(tx, "memory", "nope", payload{})
	})
	require.ErrorIs(t, err, svcerr.ErrNotFound)
}

func TestDeleteFreesTheSlot(t *testing.T) {
	store, dbc := newTestStore(t)

	var id string
	inTx(t, dbc, func(tx *sql.Tx) error {
		var err error
		id, err = store.Create(tx, "blackjack", 1, payload{Bet: 50})
		return err
	})

	err := inTx(t, dbc, func(tx *sql.Tx) error {
		return store.Delete(tx, "blackjack", id)
	})
	require.NoError(t, err)

	var got payload
	err = inTx(t, dbc, func(tx *sql.Tx) error {
		return store.Get(tx, "blackjack", id, 1, &got)
	})
	require.ErrorIs(t, err, svcerr.ErrNotFound)

	// slot is free again
	err = inTx(t, dbc, func(tx *sql.Tx) error {
		_, err := store.Create(tx, "blackjack", 1, payload{Bet: 70})
		return err
	})
	require.NoError(t, err)
}
