package operation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
	"github.com/yopay/yopay/internal/rates"
	"github.com/yopay/yopay/internal/wallet"
)

// Handler exposes operation HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an operation HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ReceiverLogin string          `json:"receiver_login"`
}

type createResponse struct {
	ID            int64           `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      money.Currency  `json:"currency"`
	Datetime      string          `json:"datetime"`
	ReceiverLogin string          `json:"receiver_login"`
	Status        Status          `json:"status"`
	Signature     string          `json:"signature"`
	Rates         rates.Quote     `json:"rates"`
}

// Create starts a transfer from the authenticated user's wallet to the wallet
// owned by receiver_login.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(int64)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	if len(req.ReceiverLogin) < 4 {
		return fiber.NewError(http.StatusUnprocessableEntity, "receiver_login must be at least 4 characters")
	}

	created, err := h.service.Create(c.UserContext(), CreateInput{
		SenderUserID:  userID,
		ReceiverLogin: req.ReceiverLogin,
		Currency:      currency,
		Amount:        req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrReceiverNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrSelfTransfer):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, wallet.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		default:
			return err
		}
	}

	return c.Status(http.StatusOK).JSON(createResponse{
		ID:            created.Operation.ID,
		Amount:        created.StatedAmount,
		Currency:      created.StatedCurrency,
		Datetime:      created.Operation.CreatedAt.Format(time.RFC3339Nano),
		ReceiverLogin: created.ReceiverLogin,
		Status:        created.Operation.CurrentStatus,
		Signature:     created.Operation.Signature,
		Rates:         created.Quote,
	})
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type operationResponse struct {
	ID                 int64           `json:"id"`
	SenderWalletID     int64           `json:"sender_wallet_id"`
	ReceiverWalletID   int64           `json:"receiver_wallet_id"`
	Amount             decimal.Decimal `json:"amount"`
	SenderWalletRate   decimal.Decimal `json:"sender_wallet_rate"`
	ReceiverWalletRate decimal.Decimal `json:"receiver_wallet_rate"`
	Datetime           string          `json:"datetime"`
	Signature          string          `json:"signature"`
	Status             Status          `json:"status"`
}

// ChangeStatus moves an operation to a new status. Insufficient funds is a
// business outcome answered with 202 and untouched state, not an error.
func (h *Handler) ChangeStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("operation_id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "operation_id must be an integer")
	}

	var req changeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}

	op, err := h.service.Transition(c.UserContext(), id, next)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "operation not found")
		case errors.Is(err, ErrInvalidTransition):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInsufficientFunds):
			return c.Status(http.StatusAccepted).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrDuplicateTransition):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}

	return c.Status(http.StatusOK).JSON(operationResponse{
		ID:                 op.ID,
		SenderWalletID:     op.SenderWalletID,
		ReceiverWalletID:   op.ReceiverWalletID,
		Amount:             op.Amount,
		SenderWalletRate:   op.SenderWalletRate,
		ReceiverWalletRate: op.ReceiverWalletRate,
		Datetime:           op.CreatedAt.Format(time.RFC3339Nano),
		Signature:          op.Signature,
		Status:             op.CurrentStatus,
	})
}
