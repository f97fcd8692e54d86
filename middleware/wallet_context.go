// middleware/wallet_context.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// WalletContextMiddleware extracts the caller's wallet address set by the
// Gateway after signature verification. Addresses are lowercased here so
// every downstream comparison and lookup is case-insensitive.
func WalletContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		wallet := strings.ToLower(strings.TrimSpace(c.Get("X-Wallet-Address")))
		if wallet == "" {
			log.Printf("❌ [WALLET_CTX] X-Wallet-Address required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-Wallet-Address — request must come through gateway with auth context",
			})
		}

		c.Locals("wallet", wallet)
		return c.Next()
	}
}
