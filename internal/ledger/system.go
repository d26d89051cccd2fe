package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/digital_wallet/internal/audit"
)

// System is the wallet registry and ledger engine. A single lock guards the
// registry and every wallet, and is held from validation through mutation so
// concurrent withdrawals and transfers can never drive a balance negative.
// Audit events are emitted after the lock is released.
type System struct {
	mu      sync.RWMutex
	wallets map[string]*Wallet
	sink    audit.Sink
}

// New creates an empty ledger reporting to sink. A nil sink discards events.
// Panics raised by the sink are contained and never reach callers.
func New(sink audit.Sink) *System {
	return &System{wallets: make(map[string]*Wallet), sink: audit.Safe(sink)}
}

// CreateWallet registers a zero-balance wallet for userID, or returns the
// existing one. wallet_created is emitted on every call, including when the
// wallet already existed.
func (s *System) CreateWallet(ctx context.Context, userID string) Info {
	s.sink.Log(ctx, audit.LevelInfo, EventWalletCreated, map[string]any{"user_id": userID})

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findOrCreate(userID).Info()
}

// Deposit credits amount to userID, creating the wallet on first use.
func (s *System) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*Transaction, error) {
	tx, wallet, err := s.deposit(userID, amount)
	if err != nil {
		s.sink.Log(ctx, audit.LevelError, EventDepositFailed, map[string]any{
			"user_id": userID,
			"amount":  loggedAmount(amount),
			"error":   err.Error(),
		})
		return nil, err
	}

	s.sink.Log(ctx, audit.LevelInfo, EventDepositSuccessful, map[string]any{
		"user_id":     userID,
		"amount":      amount.String(),
		"transaction": tx.LogFormat(),
		"wallet":      wallet,
	})
	return tx, nil
}

func (s *System) deposit(userID string, amount decimal.Decimal) (*Transaction, map[string]any, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := NewTransaction("", userID, amount, TypeDeposit)
	if err != nil {
		return nil, nil, err
	}
	w := s.findOrCreate(userID)
	w.AddTransaction(tx)
	w.UpdateBalance(amount)
	return tx, w.LogFormat(), nil
}

// Withdraw debits amount from an existing wallet. The stored transaction
// carries the negated amount.
func (s *System) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*Transaction, error) {
	tx, wallet, err := s.withdraw(userID, amount)
	if err != nil {
		s.sink.Log(ctx, audit.LevelError, EventWithdrawalFailed, map[string]any{
			"user_id": userID,
			"amount":  loggedAmount(amount),
			"error":   err.Error(),
		})
		return nil, err
	}

	s.sink.Log(ctx, audit.LevelInfo, EventWithdrawalSuccessful, map[string]any{
		"user_id":     userID,
		"amount":      amount.String(),
		"transaction": tx.LogFormat(),
		"wallet":      wallet,
	})
	return tx, nil
}

func (s *System) withdraw(userID string, amount decimal.Decimal) (*Transaction, map[string]any, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.find(userID)
	if err != nil {
		return nil, nil, err
	}
	if w.Balance().LessThan(amount) {
		return nil, nil, insufficientFunds(w, amount)
	}

	delta := amount.Neg()
	tx, err := NewTransaction(userID, "", delta, TypeWithdraw)
	if err != nil {
		return nil, nil, err
	}
	w.AddTransaction(tx)
	w.UpdateBalance(delta)
	return tx, w.LogFormat(), nil
}

// Transfer moves amount from one wallet to another. The destination is
// created when missing, even if the transfer then fails for lack of funds.
// One transaction is recorded and shared by both histories.
func (s *System) Transfer(ctx context.Context, fromUserID, toUserID string, amount decimal.Decimal) (*Transaction, error) {
	tx, from, to, err := s.transfer(fromUserID, toUserID, amount)
	if err != nil {
		s.sink.Log(ctx, audit.LevelError, EventTransferFailed, map[string]any{
			"from_user_id": fromUserID,
			"to_user_id":   toUserID,
			"amount":       loggedAmount(amount),
			"error":        err.Error(),
		})
		return nil, err
	}

	s.sink.Log(ctx, audit.LevelInfo, EventTransferSuccessful, map[string]any{
		"transaction": tx.LogFormat(),
		"from_wallet": from,
		"to_wallet":   to,
	})
	return tx, nil
}

func (s *System) transfer(fromUserID, toUserID string, amount decimal.Decimal) (*Transaction, map[string]any, map[string]any, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.find(fromUserID)
	if err != nil {
		return nil, nil, nil, err
	}
	to := s.findOrCreate(toUserID)

	if from.Balance().LessThan(amount) {
		return nil, nil, nil, insufficientFunds(from, amount)
	}

	tx, err := NewTransaction(fromUserID, toUserID, amount, TypeTransfer)
	if err != nil {
		return nil, nil, nil, err
	}
	from.AddTransaction(tx)
	to.AddTransaction(tx)
	from.UpdateBalance(amount.Neg())
	to.UpdateBalance(amount)
	return tx, from.LogFormat(), to.LogFormat(), nil
}

// Balance returns the current balance of userID.
func (s *System) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	s.mu.RLock()
	w, err := s.find(userID)
	var (
		balance decimal.Decimal
		view    map[string]any
	)
	if err == nil {
		balance = w.Balance()
		view = w.LogFormat()
	}
	s.mu.RUnlock()

	if err != nil {
		s.sink.Log(ctx, audit.LevelError, EventBalanceCheckFailed, map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return decimal.Zero, err
	}

	s.sink.Log(ctx, audit.LevelInfo, EventBalanceChecked, view)
	return balance, nil
}

// TransactionHistory returns userID's transactions in chronological order.
// The slice is a snapshot; the transactions are the same values held by the
// ledger, so a transfer appears with one identity in both parties' histories.
func (s *System) TransactionHistory(ctx context.Context, userID string) ([]*Transaction, error) {
	s.mu.RLock()
	w, err := s.find(userID)
	var history []*Transaction
	if err == nil {
		history = w.Transactions()
	}
	s.mu.RUnlock()

	if err != nil {
		s.sink.Log(ctx, audit.LevelError, EventHistoryRetrievalFailed, map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	s.sink.Log(ctx, audit.LevelInfo, EventHistoryRetrieved, map[string]any{
		"user_id":           userID,
		"transaction_count": len(history),
	})
	return history, nil
}

// find must be called with mu held.
func (s *System) find(userID string) (*Wallet, error) {
	w, ok := s.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	return w, nil
}

// findOrCreate must be called with mu held for writing.
func (s *System) findOrCreate(userID string) *Wallet {
	w, ok := s.wallets[userID]
	if !ok {
		w = NewWallet(userID)
		s.wallets[userID] = w
	}
	return w
}

func insufficientFunds(w *Wallet, amount decimal.Decimal) error {
	return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, w.Balance().String(), amount.String())
}
