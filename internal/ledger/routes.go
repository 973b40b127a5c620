package ledger

import (
	"github.com/gofiber/fiber/v2"

	"coin-casino/internal/svcerr"
)

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Get("/wallet/balance", func(c *fiber.Ctx) error {
		uid := c.Locals("uid").(int64)
		b, err := service.Balance(uid)
		if err != nil {
			return svcerr.Reply(c, err)
		}
		return c.JSON(fiber.Map{"balance": b})
	})
}

func RegisterAdminRoutes(app fiber.Router, service *Service) {

	app.Post("/wallet/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UID    int64 `json:"uid"`
			Amount int64 `json:"amount"`
		}
		var r Req
		c.BodyParser(&r)

		if err := service.EnsureAccount(r.UID, 0); err != nil {
			return svcerr.Reply(c, err)
		}

		tx, err := service.db.Begin()
		if err != nil {
			return svcerr.Reply(c, err)
		}
		newBalance, err := service.Apply(tx, r.UID, r.Amount)
		if err != nil {
			tx.Rollback()
			return svcerr.Reply(c, err)
		}
		tx.Commit()

		return c.JSON(fiber.Map{"status": "granted", "balance": newBalance})
	})
}
