package reward

import (
	"github.com/gofiber/fiber/v2"

	"coin-casino/internal/svcerr"
)

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Get("/reward/daily/status", func(c *fiber.Ctx) error {
		uid := c.Locals("uid").(int64)
		status, err := service.Status(uid)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(status)
	})

	app.Post("/reward/daily/spin", func(c *fiber.Ctx) error {
		uid := c.Locals("uid").(int64)
		result, err := service.Spin(uid)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(result)
	})
}
