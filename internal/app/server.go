package app

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coin-casino/internal/blackjack"
	"coin-casino/internal/config"
	"coin-casino/internal/db"
	"coin-casino/internal/dice"
	"coin-casino/internal/event"
	"coin-casino/internal/history"
	"coin-casino/internal/jobs"
	"coin-casino/internal/leaderboard"
	"coin-casino/internal/ledger"
	"coin-casino/internal/logger"
	"coin-casino/internal/lottery"
	"coin-casino/internal/memory"
	"coin-casino/internal/monitoring"
	"coin-casino/internal/reward"
	"coin-casino/internal/roulette"
	"coin-casino/internal/security"
	"coin-casino/internal/session"
	wshub "coin-casino/internal/ws"
)

type Server struct {
	app  *fiber.App
	cfg  *config.Config
	jobs *jobs.Manager
}

func NewServer() *Server {
	cfg := config.Load()
	logger.Init()
	monitoring.Init()

	database := db.Init(cfg.DBPath)

	bus := event.NewBus()
	hub := wshub.NewHub()
	board := leaderboard.New()

	ledgerService := ledger.New(database)
	sessionStore := session.New(database)
	historyService := history.New(database)

	blackjackService := blackjack.New(database, ledgerService, sessionStore, bus)
	memoryService := memory.New(database, ledgerService, sessionStore, bus)
	diceService := dice.New(database, ledgerService, bus)
	rouletteService := roulette.New(database, ledgerService, bus)
	lotteryService := lottery.New(database, ledgerService, bus)
	rewardService := reward.New(database, ledgerService, bus)

	registerConsumers(bus, historyService, board, hub)

	manager := jobs.New()
	manager.Register(lottery.NewDrawJob(lotteryService))

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/ws", websocket.New(hub.Handler))

	api := app.Group("/api", security.APIKeyGuard(), security.UserContext())
	ledger.RegisterRoutes(api, ledgerService)
	blackjack.RegisterRoutes(api, blackjackService)
	memory.RegisterRoutes(api, memoryService)
	dice.RegisterRoutes(api, diceService)
	roulette.RegisterRoutes(api, rouletteService)
	lottery.RegisterRoutes(api, lotteryService)
	reward.RegisterRoutes(api, rewardService)
	history.RegisterRoutes(api, historyService)
	leaderboard.RegisterRoutes(api, board)

	admin := app.Group("/admin", security.AdminGuard())
	ledger.RegisterAdminRoutes(admin, ledgerService)
	lottery.RegisterAdminRoutes(admin, lotteryService)

	return &Server{app: app, cfg: cfg, jobs: manager}
}

func (s *Server) Start() error {
	go s.jobs.Start(context.Background())
	return s.app.Listen(":" + s.cfg.Port)
}

// registerConsumers wires the async side effects of settled games: history
// is appended, the leaderboard updated and the live feed notified, none of
// which can fail a settlement that already committed.
func registerConsumers(bus *event.Bus, hist *history.Service, board *leaderboard.Leaderboard, hub *wshub.Hub) {

	bus.Subscribe(event.EventGameSettled, func(payload interface{}) {
		settled := payload.(event.GameSettled)

		hist.Append(history.Record{
			UserID:     settled.UserID,
			GameType:   settled.GameType,
			BetDetails: settled.BetDetails,
			Result:     settled.Result,
			NetPayout:  settled.NetPayout,
		})
		board.Record(settled.UserID, settled.NetPayout)
		hub.BroadcastJSON(fiber.Map{
			"event":      event.EventGameSettled,
			"game":       settled.GameType,
			"net_payout": settled.NetPayout,
		})
	})

	bus.Subscribe(event.EventLotterySettled, func(payload interface{}) {
		hub.BroadcastJSON(fiber.Map{
			"event":  event.EventLotterySettled,
			"result": payload,
		})
	})
}
