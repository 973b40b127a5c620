package lottery

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"coin-casino/internal/svcerr"
)

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Post("/lottery/buy", func(c *fiber.Ctx) error {
		type Req struct {
			Numbers []int `json:"numbers"`
		}
		var r Req
		c.BodyParser(&r)

		uid := c.Locals("uid").(int64)
		result, err := service.Buy(uid, r.Numbers)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.Status(201).JSON(result)
	})

	app.Get("/lottery/info", func(c *fiber.Ctx) error {
		uid := c.Locals("uid").(int64)
		info, err := service.GetInfo(uid)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(info)
	})
}

func RegisterAdminRoutes(app fiber.Router, service *Service) {

	// manual draw trigger, defaults to yesterday's date
	app.Post("/lottery/draw", func(c *fiber.Ctx) error {
		type Req struct {
			DrawDate string `json:"draw_date"`
		}
		var r Req
		c.BodyParser(&r)

		if r.DrawDate == "" {
			r.DrawDate = dateString(time.Now().AddDate(0, 0, -1))
		}

		numbers := service.GenerateNumbers()
		if err := service.Settle(r.DrawDate, numbers); err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(fiber.Map{"draw_date": r.DrawDate, "winning_numbers": numbers})
	})
}
