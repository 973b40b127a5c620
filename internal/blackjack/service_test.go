package blackjack

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"coin-casino/internal/db"
	"coin-casino/internal/deck"
	"coin-casino/internal/event"
	"coin-casino/internal/ledger"
	sessionstore "coin-casino/internal/session"
	"coin-casino/internal/svcerr"
)

const testUID = int64(1)

func newTestService(t *testing.T) (*Service, *ledger.Service, *sessionstore.Store, *sql.DB) {
	t.Helper()

	dbc, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	dbc.SetMaxOpenConns(1)
	t.Cleanup(func() { dbc.Close() })
	db.Migrate(dbc)

	led := ledger.New(dbc)
	store := sessionstore.New(dbc)
	require.NoError(t, led.EnsureAccount(testUID, 1000))

	svc := New(dbc, led, store, event.NewBus())
	svc.rng = rand.New(rand.NewSource(42))
	return svc, led, store, dbc
}

func TestDealDebitsAndCreatesSession(t *testing.T) {
	svc, led, _, _ := newTestService(t)

	result, err := svc.Deal(testUID, 100)
	require.NoError(t, err)
	require.NotEmpty(t, result.GameID)
	require.Len(t, result.PlayerHand, 2)
	require.Len(t, result.DealerHand, 2)
	require.Equal(t, deck.Card{Rank: "?", Suit: "?"}, result.DealerHand[1])
	require.Equal(t, int64(900), result.NewBalance)

	balance, err := led.Balance(testUID)
	require.NoError(t, err)
	require.Equal(t, int64(900), balance)
}

func TestDealRejectsBadBets(t *testing.T) {
	svc, led, _, _ := newTestService(t)

	_, err := svc.Deal(testUID, 0)
	require.ErrorIs(t, err, svcerr.ErrInvalidWager)

	_, err = svc.Deal(testUID, 2000)
	require.ErrorIs(t, err, svcerr.ErrInsufficientFunds)

	// failed deals leave the balance untouched
	balance, err := led.Balance(testUID)
	require.NoError(t, err)
	require.Equal(t, int64(1000), balance)
}

func TestDealRejectsSecondConcurrentGame(t *testing.T) {
	svc, led, _, _ := newTestService(t)

	_, err := svc.Deal(testUID, 100)
	require.NoError(t, err)

	_, err = svc.Deal(testUID, 100)
	require.ErrorIs(t, err, svcerr.ErrConflict)

	// the rejected deal must not have debited anything
	balance, err := led.Balance(testUID)
	require.NoError(t, err)
	require.Equal(t, int64(900), balance)
}

func TestHitDrawsFromSessionDeck(t *testing.T) {
	svc, _, store, dbc := newTestService(t)

	dealt, err := svc.Deal(testUID, 100)
	require.NoError(t, err)

	result, err := svc.Hit(dealt.GameID, testUID)
	require.NoError(t, err)
	require.Len(t, result.PlayerHand, 3)

	if result.GameState == StatePlayerTurn {
		// persisted deck must have shrunk by exactly one card
		tx, err := dbc.Begin()
		require.NoError(t, err)
		var game session
		require.NoError(t, store.Get(tx, Kind, dealt.GameID, testUID, &game))
		tx.Rollback()
		require.Len(t, game.Deck, 52-4-1)
	}
}

func TestHitUnknownSession(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Hit("no-such-game", testUID)
	require.ErrorIs(t, err, svcerr.ErrNotFound)
}

func TestHitBustDeletesSession(t *testing.T) {
	svc, _, store, dbc := newTestService(t)

	// hand at 20 with a face card on top of the deck forces a bust
	gameID := plantSession(t, dbc, store, session{
		Deck:   []deck.Card{{Rank: "K", Suit: "♠"}},
		Player: []deck.Card{{Rank: "10", Suit: "♥"}, {Rank: "10", Suit: "♦"}},
		Dealer: []deck.Card{{Rank: "9", Suit: "♣"}, {Rank: "9", Suit: "♠"}},
		Bet:    50,
		State:  StatePlayerTurn,
	})

	result, err := svc.Hit(gameID, testUID)
	require.NoError(t, err)
	require.Equal(t, StateGameOver, result.GameState)
	require.Equal(t, 30, result.PlayerScore)

	// a second hit must not double-draw
	_, err = svc.Hit(gameID, testUID)
	require.ErrorIs(t, err, svcerr.ErrNotFound)
}

func TestStandOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		game       session
		outcome    string
		payout     int64
		newBalance int64
	}{
		{
			name: "player wins",
			game: session{
				Deck:   deck.New(),
				Player: []deck.Card{{Rank: "10", Suit: "♥"}, {Rank: "10", Suit: "♦"}},
				Dealer: []deck.Card{{Rank: "10", Suit: "♣"}, {Rank: "7", Suit: "♠"}},
				Bet:    100,
				State:  StatePlayerTurn,
			},
			outcome:    OutcomeWin,
			payout:     200,
			newBalance: 1200,
		},
		{
			name: "push returns stake",
			game: session{
				Deck:   deck.New(),
				Player: []deck.Card{{Rank: "10", Suit: "♥"}, {Rank: "9", Suit: "♦"}},
				Dealer: []deck.Card{{Rank: "10", Suit: "♣"}, {Rank: "9", Suit: "♠"}},
				Bet:    100,
				State:  StatePlayerTurn,
			},
			outcome:    OutcomePush,
			payout:     100,
			newBalance: 1100,
		},
		{
			name: "dealer wins",
			game: session{
				Deck:   deck.New(),
				Player: []deck.Card{{Rank: "10", Suit: "♥"}, {Rank: "8", Suit: "♦"}},
				Dealer: []deck.Card{{Rank: "10", Suit: "♣"}, {Rank: "10", Suit: "♠"}},
				Bet:    100,
				State:  StatePlayerTurn,
			},
			outcome:    OutcomeLoss,
			payout:     0,
			newBalance: 1000,
		},
		{
			name: "dealer busts drawing to 17",
			game: session{
				Deck:   []deck.Card{{Rank: "10", Suit: "♥"}},
				Player: []deck.Card{{Rank: "10", Suit: "♦"}, {Rank: "2", Suit: "♥"}},
				Dealer: []deck.Card{{Rank: "10", Suit: "♣"}, {Rank: "6", Suit: "♠"}},
				Bet:    100,
				State:  StatePlayerTurn,
			},
			outcome:    OutcomeWin,
			payout:     200,
			newBalance: 1200,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, led, store, dbc := newTestService(t)
			gameID := plantSession(t, dbc, store, tc.game)

			result, err := svc.Stand(gameID, testUID)
			require.NoError(t, err)
			require.Equal(t, tc.outcome, result.Outcome)
			require.Equal(t, tc.payout, result.Payout)
			require.Equal(t, tc.newBalance, result.NewBalance)

			balance, err := led.Balance(testUID)
			require.NoError(t, err)
			require.Equal(t, tc.newBalance, balance)

			// session is gone, standing twice is not possible
			_, err = svc.Stand(gameID, testUID)
			require.ErrorIs(t, err, svcerr.ErrNotFound)
		})
	}
}

func TestSessionOwnership(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	dealt, err := svc.Deal(testUID, 100)
	require.NoError(t, err)

	_, err = svc.Hit(dealt.GameID, testUID+1)
	require.ErrorIs(t, err, svcerr.ErrNotFound)
	_, err = svc.Stand(dealt.GameID, testUID+1)
	require.ErrorIs(t, err, svcerr.ErrNotFound)
}

func plantSession(t *testing.T, dbc *sql.DB, store *sessionstore.Store, game session) string {
	t.Helper()

	tx, err := dbc.Begin()
	require.NoError(t, err)
	id, err := store.Create(tx, Kind, testUID, game)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return id
}
