package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enumerates the balance-affecting operations.
type TransactionType string

const (
	TypeDeposit  TransactionType = "deposit"
	TypeWithdraw TransactionType = "withdraw"
	TypeTransfer TransactionType = "transfer"
)

// timestampLayout renders ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Valid reports whether t is one of the supported transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdraw, TypeTransfer:
		return true
	default:
		return false
	}
}

// Transaction is an immutable record of one ledger event. A transfer is
// stored once and referenced from both wallets' histories.
type Transaction struct {
	id        string
	fromUser  string
	toUser    string
	amount    decimal.Decimal
	txType    TransactionType
	timestamp time.Time
}

// NewTransaction builds a transaction with a fresh id and the current time.
// An empty fromUser or toUser means the side is absent (deposits have no
// source, withdrawals no destination).
func NewTransaction(fromUser, toUser string, amount decimal.Decimal, txType TransactionType) (*Transaction, error) {
	if !txType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, string(txType))
	}
	return &Transaction{
		id:        uuid.NewString(),
		fromUser:  fromUser,
		toUser:    toUser,
		amount:    amount,
		txType:    txType,
		timestamp: time.Now(),
	}, nil
}

// ID returns the transaction's UUID.
func (t *Transaction) ID() string { return t.id }

// FromUser returns the source user, or "" for deposits.
func (t *Transaction) FromUser() string { return t.fromUser }

// ToUser returns the destination user, or "" for withdrawals.
func (t *Transaction) ToUser() string { return t.toUser }

// Amount returns the signed amount. Withdrawals are negative.
func (t *Transaction) Amount() decimal.Decimal { return t.amount }

// Type returns the transaction type.
func (t *Transaction) Type() TransactionType { return t.txType }

// Timestamp returns the creation time.
func (t *Transaction) Timestamp() time.Time { return t.timestamp }

// LogFormat returns the serializable view used in audit events and API responses.
func (t *Transaction) LogFormat() map[string]any {
	return map[string]any{
		"transaction_id": t.id,
		"from_user":      optionalUser(t.fromUser),
		"to_user":        optionalUser(t.toUser),
		"amount":         t.amount.String(),
		"type":           string(t.txType),
		"timestamp":      t.timestamp.Format(timestampLayout),
	}
}

func optionalUser(id string) any {
	if id == "" {
		return nil
	}
	return id
}
