package leaderboard

import (
	"sort"
	"sync"

	"github.com/gofiber/fiber/v2"
)

type Entry struct {
	UID    int64 `json:"uid"`
	Profit int64 `json:"profit"`
}

// Leaderboard tracks net profit per player since process start.
type Leaderboard struct {
	data map[int64]int64
	mu   sync.Mutex
}

func New() *Leaderboard {
	return &Leaderboard{
		data: make(map[int64]int64),
	}
}

func (l *Leaderboard) Record(uid int64, profit int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.data[uid] += profit
}

func (l *Leaderboard) Top(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []Entry
	for uid, profit := range l.data {
		entries = append(entries, Entry{UID: uid, Profit: profit})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Profit > entries[j].Profit
	})

	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func RegisterRoutes(app fiber.Router, board *Leaderboard) {

	app.Get("/casino/leaderboard", func(c *fiber.Ctx) error {
		return c.JSON(board.Top(10))
	})
}
