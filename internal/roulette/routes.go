package roulette

import (
	"github.com/gofiber/fiber/v2"

	"coin-casino/internal/svcerr"
)

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Post("/roulette/spin", func(c *fiber.Ctx) error {
		type Req struct {
			Bets map[string]int64 `json:"bets"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Spin(uid, r.Bets)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(result)
	})
}
