package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// SessionRepository defines the interface for persisting the acting user's
// record across restarts. The record lives under a single fixed storage key;
// it is read at startup and written on every balance change.
type SessionRepository interface {
	// Save writes the user record, replacing any previous one
	Save(ctx context.Context, user *User) error

	// Load reads the persisted user record
	// Returns ErrUserNotFound if no record is stored
	Load(ctx context.Context) (*User, error)

	// Delete removes the persisted record (sign-out)
	// Deleting an absent record is not an error
	Delete(ctx context.Context) error
}

// PaymentMethod is the funding channel selected in a deposit flow.
// The method is cosmetic: it never alters the settlement outcome.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodUSSD     PaymentMethod = "ussd"
)

// PaymentGateway models the external payment rail a flow talks to while in
// its processing step. Implementations decide latency and outcome, so tests
// can inject deterministic success or failure without real timers.
type PaymentGateway interface {
	// Submit sends an amount to the external rail and blocks until the rail
	// settles or ctx is cancelled. A non-nil error means the flow must move
	// to its failed step without touching the ledger.
	Submit(ctx context.Context, amount decimal.Decimal, method PaymentMethod) error
}
