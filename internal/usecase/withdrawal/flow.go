package withdrawal

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/ledger"
)

// Step represents the state of a withdrawal flow
type Step string

const (
	StepInput        Step = "input"
	StepVerification Step = "verification"
	StepProcessing   Step = "processing"
	StepSuccess      Step = "success"
	StepFailed       Step = "failed"
)

// minCodeLength is the minimum accepted verification code length. The code
// is a PIN/2FA stand-in; any input of this length is accepted.
const minCodeLength = 4

// Input is the user-supplied part of a withdrawal.
type Input struct {
	Amount        decimal.Decimal
	Bank          string
	AccountNumber string
}

// Flow sequences one wallet withdrawal:
// input -> verification -> processing -> success, with a back edge from
// verification to input. The ledger is mutated on flow exit (Close from
// success); closing earlier is user abandonment and mutates nothing.
type Flow struct {
	mu sync.Mutex

	ID     uuid.UUID
	UserID uuid.UUID

	step    Step
	amount  decimal.Decimal
	bank    string
	account string
	lastErr *domain.ValidationError
	settled bool

	store   *ledger.Store
	gateway domain.PaymentGateway
}

// NewFlow creates a withdrawal flow for one user, starting in the input step.
func NewFlow(store *ledger.Store, gateway domain.PaymentGateway, userID uuid.UUID) *Flow {
	return &Flow{
		ID:      uuid.New(),
		UserID:  userID,
		step:    StepInput,
		store:   store,
		gateway: gateway,
	}
}

// Max returns the full current balance, the convenience value for the
// "withdraw everything" shortcut.
func (f *Flow) Max() (decimal.Decimal, error) {
	return f.store.Balance(f.UserID)
}

// Submit validates the amount and destination and advances to verification.
// An amount exceeding the current balance is a distinguishable validation
// error; the flow stays in input.
func (f *Flow) Submit(ctx context.Context, input Input) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepInput && f.step != StepFailed {
		return domain.NewValidationError(domain.ReasonWrongStep, fmt.Sprintf("cannot submit while in step %q", f.step))
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		f.lastErr = domain.NewValidationError(domain.ReasonAmountNotPositive, "withdrawal amount must be positive")
		f.step = StepInput
		return f.lastErr
	}

	balance, err := f.store.Balance(f.UserID)
	if err != nil {
		return err
	}
	if input.Amount.GreaterThan(balance) {
		f.lastErr = domain.NewValidationError(domain.ReasonInsufficientFunds, "insufficient balance")
		f.step = StepInput
		return f.lastErr
	}

	if input.Bank == "" || input.AccountNumber == "" {
		f.lastErr = domain.NewValidationError(domain.ReasonMissingDestination, "destination bank and account number are required")
		f.step = StepInput
		return f.lastErr
	}

	f.lastErr = nil
	f.amount = input.Amount
	f.bank = input.Bank
	f.account = input.AccountNumber
	f.step = StepVerification
	return nil
}

// Back returns from verification to input, keeping the entered values.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepVerification {
		return domain.NewValidationError(domain.ReasonWrongStep, fmt.Sprintf("cannot go back from step %q", f.step))
	}
	f.step = StepInput
	return nil
}

// Verify checks the step-up code and runs the simulated gateway call.
// A too-short code leaves the flow in verification with a structured error.
func (f *Flow) Verify(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.step != StepVerification {
		verr := domain.NewValidationError(domain.ReasonWrongStep, fmt.Sprintf("cannot verify while in step %q", f.step))
		f.mu.Unlock()
		return verr
	}

	if len(code) < minCodeLength {
		f.lastErr = domain.NewValidationError(domain.ReasonCodeTooShort, fmt.Sprintf("verification code must be at least %d characters", minCodeLength))
		verr := f.lastErr
		f.mu.Unlock()
		return verr
	}

	f.lastErr = nil
	f.step = StepProcessing
	amount := f.amount
	f.mu.Unlock()

	err := f.gateway.Submit(ctx, amount, domain.PaymentMethodTransfer)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.step = StepFailed
		return fmt.Errorf("payment gateway rejected withdrawal: %w", err)
	}
	f.step = StepSuccess
	return nil
}

// Close dismisses the flow. Closing from success settles exactly once:
// the wallet is debited and a withdrawal transaction is logged. Closing
// from any other step is a no-op abandonment.
func (f *Flow) Close(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSuccess || f.settled {
		return false, nil
	}

	if _, err := f.store.AdjustBalance(ctx, f.UserID, f.amount.Neg()); err != nil {
		return false, fmt.Errorf("failed to debit wallet: %w", err)
	}
	description := fmt.Sprintf("Bank Withdrawal to %s", f.bank)
	if _, err := f.store.RecordTransaction(f.UserID, domain.TransactionTypeWithdrawal, f.amount, description); err != nil {
		return false, fmt.Errorf("failed to record withdrawal transaction: %w", err)
	}

	f.settled = true
	return true, nil
}

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// ValidationErr returns the current validation error, if any.
func (f *Flow) ValidationErr() *domain.ValidationError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}
