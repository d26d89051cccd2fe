package ledger

import "github.com/shopspring/decimal"

// Wallet holds a user's balance and append-only transaction history. It does
// not validate anything itself and is not safe for concurrent use; System
// serializes access.
type Wallet struct {
	userID       string
	balance      decimal.Decimal
	transactions []*Transaction
}

// NewWallet returns an empty zero-balance wallet for userID.
func NewWallet(userID string) *Wallet {
	return &Wallet{userID: userID, balance: decimal.Zero}
}

// UserID returns the owning user's id.
func (w *Wallet) UserID() string { return w.userID }

// Balance returns the current balance.
func (w *Wallet) Balance() decimal.Decimal { return w.balance }

// Transactions returns the history in insertion order. The slice is a copy;
// the transactions themselves are shared.
func (w *Wallet) Transactions() []*Transaction {
	out := make([]*Transaction, len(w.transactions))
	copy(out, w.transactions)
	return out
}

// AddTransaction appends tx to the history.
func (w *Wallet) AddTransaction(tx *Transaction) {
	w.transactions = append(w.transactions, tx)
}

// UpdateBalance adds delta, which may be negative, to the balance.
func (w *Wallet) UpdateBalance(delta decimal.Decimal) {
	w.balance = w.balance.Add(delta)
}

// Info is a point-in-time view of a wallet.
type Info struct {
	UserID           string          `json:"user_id"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}

// Info snapshots the wallet.
func (w *Wallet) Info() Info {
	return Info{UserID: w.userID, Balance: w.balance, TransactionCount: len(w.transactions)}
}

// LogFormat returns the serializable view used in audit events.
func (w *Wallet) LogFormat() map[string]any {
	return map[string]any{
		"user_id":           w.userID,
		"balance":           w.balance.String(),
		"transaction_count": len(w.transactions),
	}
}
