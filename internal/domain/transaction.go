package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of wallet transaction
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeInvestment TransactionType = "investment"
)

// TransactionStatus represents the settlement status of a transaction record
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction represents an immutable audit record of a wallet mutation.
// The log is append-only, newest first; insertion order is the source of
// truth for ordering, not the Date field.
type Transaction struct {
	ID          uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Status      TransactionStatus
}
