package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yopay/yopay/internal/report"
)

// RegisterReportRoutes wires the report download endpoints. A session is
// optional here: anonymous callers name the subject via user_login.
func RegisterReportRoutes(r fiber.Router, h *report.Handler, optionalSession fiber.Handler) {
	group := r.Group("/report", optionalSession)
	group.Get("/operations", h.Operations)
	group.Get("/statuses", h.Statuses)
}
