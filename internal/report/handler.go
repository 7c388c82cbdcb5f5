package report

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yopay/yopay/internal/identity"
)

const dateLayout = "2006-01-02"

// Handler streams report files to the client without buffering whole results.
type Handler struct {
	src    Source
	users  identity.Repository
	logger *slog.Logger
}

// NewHandler builds the report HTTP handler.
func NewHandler(src Source, users identity.Repository, logger *slog.Logger) *Handler {
	return &Handler{src: src, users: users, logger: logger}
}

// Operations serves the accepted-operations report.
func (h *Handler) Operations(c *fiber.Ctx) error {
	return h.report(c, KindOperations)
}

// Statuses serves the status-history report.
func (h *Handler) Statuses(c *fiber.Ctx) error {
	return h.report(c, KindStatuses)
}

func (h *Handler) report(c *fiber.Ctx, kind Kind) error {
	format, err := ParseFormat(c.Query("report_format"))
	if err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}

	filter, err := h.buildFilter(c)
	if err != nil {
		return err
	}

	builder, err := NewBuilder(format, kind)
	if err != nil {
		return err
	}

	// The stream writer runs after this handler returns, so it needs a
	// context that outlives the request one.
	ctx := context.WithoutCancel(c.UserContext())

	c.Set(fiber.HeaderContentType, builder.ContentType())
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := builder.Stream(ctx, w, h.src, filter); err != nil {
			h.logger.Error("stream report", "kind", kind, "format", format, "error", err)
		}
	})
	return nil
}

// buildFilter resolves the report subject (session user or explicit
// user_login for anonymous requests) and the optional date window.
func (h *Handler) buildFilter(c *fiber.Ctx) (Filter, error) {
	var filter Filter

	if userID, ok := c.Locals("user_id").(int64); ok {
		filter.UserID = userID
	} else {
		login := c.Query("user_login")
		if login == "" {
			return Filter{}, fiber.NewError(http.StatusUnprocessableEntity, "user_login is required for anonymous requests")
		}
		user, err := h.users.FindByLogin(c.UserContext(), login)
		if err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				return Filter{}, fiber.NewError(http.StatusNotFound, "user not found")
			}
			return Filter{}, err
		}
		filter.UserID = user.ID
	}

	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return Filter{}, fiber.NewError(http.StatusUnprocessableEntity, "date_from must be YYYY-MM-DD")
		}
		filter.DateFrom = from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return Filter{}, fiber.NewError(http.StatusUnprocessableEntity, "date_to must be YYYY-MM-DD")
		}
		filter.DateTo = to
	}
	if !filter.DateFrom.IsZero() && !filter.DateTo.IsZero() && filter.DateFrom.After(filter.DateTo) {
		return Filter{}, fiber.NewError(http.StatusUnprocessableEntity, "date_from should be smaller than date_to")
	}

	return filter, nil
}
