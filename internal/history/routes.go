package history

import (
	"github.com/gofiber/fiber/v2"

	"coin-casino/internal/svcerr"
)

var validGameTypes = map[string]bool{
	"dice":      true,
	"roulette":  true,
	"blackjack": true,
	"memory":    true,
}

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Get("/games/:gameType/history", func(c *fiber.Ctx) error {
		gameType := c.Params("gameType")
		if !validGameTypes[gameType] {
			return c.Status(400).JSON(fiber.Map{"error": "unknown game type"})
		}

		records, err := service.Recent(gameType, 15)
		if err != nil {
			return svcerr.Reply(c, err)
		}

		type entry struct {
			Result    any   `json:"result"`
			Timestamp int64 `json:"timestamp"`
		}
		out := make([]entry, 0, len(records))
		for _, rec := range records {
			out = append(out, entry{Result: rec.Result, Timestamp: rec.CreatedAt})
		}
		return c.JSON(out)
	})
}
