package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investment represents a user's stake (position) in one project.
// CurrentValue is the mark-to-model value; it starts equal to Amount at
// settlement and is only revalued through an explicit ledger operation.
// Positions are never deleted; no exit or liquidation flow exists.
type Investment struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	Amount       decimal.Decimal // Principal contributed
	CurrentValue decimal.Decimal
	Date         time.Time
}
