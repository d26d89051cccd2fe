package ledger

import (
	"errors"
)

var (
	// ErrInvalidAmount occurs when an amount is missing, non-numeric, zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUserNotFound indicates no wallet is registered for the requested user.
	ErrUserNotFound = errors.New("user not found")

	// ErrInsufficientFunds occurs when the source wallet lacks available balance
	// to cover a withdrawal or transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransactionType is returned when a transaction is constructed
	// with a type outside the supported set.
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// Audit event names emitted by System.
const (
	EventWalletCreated          = "wallet_created"
	EventDepositSuccessful      = "deposit_successful"
	EventDepositFailed          = "deposit_failed"
	EventWithdrawalSuccessful   = "withdrawal_successful"
	EventWithdrawalFailed       = "withdrawal_failed"
	EventTransferSuccessful     = "transfer_successful"
	EventTransferFailed         = "transfer_failed"
	EventBalanceChecked         = "balance_checked"
	EventBalanceCheckFailed     = "balance_check_failed"
	EventHistoryRetrieved       = "transaction_history_retrieved"
	EventHistoryRetrievalFailed = "transaction_history_retrieval_failed"
)
