package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yopay/yopay/internal/operation"
)

// RegisterOperationRoutes wires the status manager transition endpoint.
func RegisterOperationRoutes(r fiber.Router, h *operation.Handler, statusManagerAuth fiber.Handler) {
	r.Post("/operations/:operation_id", statusManagerAuth, h.ChangeStatus)
}
