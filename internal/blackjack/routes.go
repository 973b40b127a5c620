package blackjack

import (
	"github.com/gofiber/fiber/v2"

	"coin-casino/internal/svcerr"
)

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Post("/blackjack/deal", func(c *fiber.Ctx) error {
		type Req struct {
			Bet int64 `json:"bet"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Deal(uid, r.Bet)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.Status(201).JSON(result)
	})

	app.Post("/blackjack/hit", func(c *fiber.Ctx) error {
		type Req struct {
			GameID string `json:"game_id"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Hit(r.GameID, uid)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(result)
	})

	app.Post("/blackjack/stand", func(c *fiber.Ctx) error {
		type Req struct {
			GameID string `json:"game_id"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Stand(r.GameID, uid)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(result)
	})
}
