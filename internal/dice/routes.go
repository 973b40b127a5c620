package dice

import (
	"github.com/gofiber/fiber/v2"

	"coin-casino/internal/svcerr"
)

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Post("/dice/roll", func(c *fiber.Ctx) error {
		type Req struct {
			Bet        int64  `json:"bet"`
			Mode       string `json:"mode"`
			Target     int    `json:"target"`
			ClientSeed string `json:"client_seed"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Roll(uid, Wager{Bet: r.Bet, Mode: r.Mode, Target: r.Target}, r.ClientSeed)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(result)
	})
}
