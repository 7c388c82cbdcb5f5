package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/yopay/yopay/internal/identity"
	"github.com/yopay/yopay/internal/money"
)

// Handler exposes signup and login endpoints.
type Handler struct {
	ids      *identity.Service
	sessions *Sessions
}

// NewHandler builds the auth HTTP handler.
func NewHandler(ids *identity.Service, sessions *Sessions) *Handler {
	return &Handler{ids: ids, sessions: sessions}
}

type signupRequest struct {
	User struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		City     string `json:"city"`
		Login    string `json:"login"`
		Password string `json:"password"`
	} `json:"user"`
	WalletCurrency string `json:"wallet_currency"`
}

// Signup registers a user and their wallet.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	currency, err := money.ParseCurrency(req.WalletCurrency)
	if err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.ids.Register(c.UserContext(), identity.RegisterInput{
		Name:           req.User.Name,
		Country:        req.User.Country,
		City:           req.User.City,
		Login:          req.User.Login,
		Password:       req.User.Password,
		WalletCurrency: currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrLoginTaken):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, identity.ErrInvalidProfile):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		default:
			return err
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": user.ID, "login": user.Login})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a session token. The token goes into
// the Authorization header of subsequent requests as-is.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.ids.Authenticate(c.UserContext(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	token, err := h.sessions.Issue(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"token": token})
}
