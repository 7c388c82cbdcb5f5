package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yopay/yopay/internal/operation"
	"github.com/yopay/yopay/internal/wallet"
)

// RegisterWalletRoutes wires the session-scoped wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, wh *wallet.Handler, oh *operation.Handler, sessionAuth fiber.Handler) {
	group := r.Group("/wallet", sessionAuth)
	group.Get("/balance", wh.Balance)
	group.Post("/balance", wh.Deposit)
	group.Post("/operations", oh.Create)
}
