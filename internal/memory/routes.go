package memory

import (
	"github.com/gofiber/fiber/v2"

	"coin-casino/internal/svcerr"
)

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Post("/memory/start", func(c *fiber.Ctx) error {
		type Req struct {
			Bet int64 `json:"bet"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Start(uid, r.Bet)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.Status(201).JSON(result)
	})

	app.Post("/memory/guess", func(c *fiber.Ctx) error {
		type Req struct {
			GameID         string   `json:"game_id"`
			PlayerSequence []string `json:"player_sequence"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Guess(r.GameID, uid, r.PlayerSequence)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(result)
	})

	app.Post("/memory/cashout", func(c *fiber.Ctx) error {
		type Req struct {
			GameID string `json:"game_id"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Cashout(r.GameID, uid)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(result)
	})
}
