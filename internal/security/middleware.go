package security

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func APIKeyGuard() fiber.Handler {
	apiKey := os.Getenv("API_KEY")

	return func(c *fiber.Ctx) error {
		if c.Get("X-API-Key") != apiKey {
			return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}

func AdminGuard() fiber.Handler {
	admin := os.Getenv("ADMIN_TOKEN")

	return func(c *fiber.Ctx) error {
		if c.Get("X-Admin-Token") != admin {
			return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

// UserContext resolves the authenticated user id set by the upstream gateway.
// Authentication itself happens before requests reach this service.
func UserContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := strconv.ParseInt(c.Get("X-User-ID"), 10, 64)
		if err != nil || uid <= 0 {
			return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
		}
		c.Locals("uid", uid)
		return c.Next()
	}
}
