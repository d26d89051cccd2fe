package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes ledger operations over HTTP.
type Handler struct {
	system *System
}

// NewHandler builds a ledger HTTP handler.
func NewHandler(system *System) *Handler {
	return &Handler{system: system}
}

type createWalletRequest struct {
	UserID string `json:"user_id"`
}

type amountRequest struct {
	Amount json.RawMessage `json:"amount"`
}

type transferRequest struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     json.RawMessage `json:"amount"`
}

// CreateWallet registers a wallet for the given user.
func (h *Handler) CreateWallet(c *fiber.Ctx) error {
	var req createWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id is required")
	}
	info := h.system.CreateWallet(c.UserContext(), req.UserID)
	return c.Status(http.StatusCreated).JSON(info)
}

// Deposit credits the wallet named in the path.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	amount, err := parseAmountBody(c)
	if err != nil {
		return statusError(err)
	}
	tx, err := h.system.Deposit(c.UserContext(), c.Params("userId"), amount)
	if err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusCreated).JSON(tx.LogFormat())
}

// Withdraw debits the wallet named in the path.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	amount, err := parseAmountBody(c)
	if err != nil {
		return statusError(err)
	}
	tx, err := h.system.Withdraw(c.UserContext(), c.Params("userId"), amount)
	if err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusCreated).JSON(tx.LogFormat())
}

// Transfer moves funds between two users.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.FromUserID == "" || req.ToUserID == "" {
		return fiber.NewError(http.StatusBadRequest, "from_user_id and to_user_id are required")
	}
	amount, err := decodeAmount(req.Amount)
	if err != nil {
		return statusError(err)
	}
	tx, err := h.system.Transfer(c.UserContext(), req.FromUserID, req.ToUserID, amount)
	if err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusCreated).JSON(tx.LogFormat())
}

// Balance returns the balance of the wallet named in the path.
func (h *Handler) Balance(c *fiber.Ctx) error {
	userID := c.Params("userId")
	balance, err := h.system.Balance(c.UserContext(), userID)
	if err != nil {
		return statusError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id": userID,
		"balance": balance.String(),
	})
}

// History returns the transactions of the wallet named in the path.
func (h *Handler) History(c *fiber.Ctx) error {
	userID := c.Params("userId")
	history, err := h.system.TransactionHistory(c.UserContext(), userID)
	if err != nil {
		return statusError(err)
	}
	items := make([]map[string]any, 0, len(history))
	for _, tx := range history {
		items = append(items, tx.LogFormat())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id":      userID,
		"transactions": items,
	})
}

func parseAmountBody(c *fiber.Ctx) (decimal.Decimal, error) {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return decimal.Zero, fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return decodeAmount(req.Amount)
}

// decodeAmount accepts a JSON number or a numeric JSON string.
func decodeAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ParseAmount(nil)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ParseAmount(string(raw))
	}
	return ParseAmount(v)
}

func statusError(err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUserNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
