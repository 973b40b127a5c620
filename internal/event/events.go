package event

const (
	EventGameSettled    = "game.settled"
	EventLotterySettled = "lottery.settled"
	EventRewardClaimed  = "reward.claimed"
)

// GameSettled is published after a wager has been resolved and its ledger
// movement committed. Consumers (history, leaderboard, live feed) run async.
type GameSettled struct {
	UserID     int64  `json:"uid"`
	GameType   string `json:"game"`
	BetDetails []byte `json:"-"`
	Result     []byte `json:"-"`
	NetPayout  int64  `json:"net_payout"`
}

type LotterySettled struct {
	DrawDate       string  `json:"draw_date"`
	WinningNumbers []int   `json:"winning_numbers"`
	Winners        []int64 `json:"winners"`
	PrizePerWinner int64   `json:"prize_per_winner"`
}
