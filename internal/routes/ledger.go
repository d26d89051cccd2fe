package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/digital_wallet/internal/ledger"
)

// RegisterLedgerRoutes wires wallet and transfer endpoints.
func RegisterLedgerRoutes(r fiber.Router, h *ledger.Handler) {
	r.Post("/wallets", h.CreateWallet)
	r.Post("/wallets/:userId/deposits", h.Deposit)
	r.Post("/wallets/:userId/withdrawals", h.Withdraw)
	r.Get("/wallets/:userId/balance", h.Balance)
	r.Get("/wallets/:userId/transactions", h.History)
	r.Post("/transfers", h.Transfer)
}
