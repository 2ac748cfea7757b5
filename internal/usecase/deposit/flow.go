package deposit

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/ledger"
)

// Step represents the state of a deposit flow
type Step string

const (
	StepInput      Step = "input"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
	StepFailed     Step = "failed"
)

// Input is the user-supplied part of a deposit.
// The payment method is cosmetic: it never alters the settlement outcome.
type Input struct {
	Amount decimal.Decimal
	Method domain.PaymentMethod
}

// Flow sequences one wallet deposit: input -> processing -> success.
// The ledger is mutated on flow exit (Close from success), not on entering
// success; closing from input or processing is user abandonment and mutates
// nothing. A gateway failure moves the flow to failed, which is retryable
// by submitting again.
type Flow struct {
	mu sync.Mutex

	ID     uuid.UUID
	UserID uuid.UUID

	step    Step
	amount  decimal.Decimal
	method  domain.PaymentMethod
	lastErr *domain.ValidationError
	settled bool

	store   *ledger.Store
	gateway domain.PaymentGateway
}

// NewFlow creates a deposit flow for one user, starting in the input step.
func NewFlow(store *ledger.Store, gateway domain.PaymentGateway, userID uuid.UUID) *Flow {
	return &Flow{
		ID:      uuid.New(),
		UserID:  userID,
		step:    StepInput,
		store:   store,
		gateway: gateway,
	}
}

// Submit validates the input and, if valid, runs the simulated gateway call.
// Invalid input leaves the flow in input with a structured validation error.
// The gateway call blocks until the rail settles; once it starts it cannot
// be cancelled short of flow teardown.
func (f *Flow) Submit(ctx context.Context, input Input) error {
	f.mu.Lock()
	if f.step != StepInput && f.step != StepFailed {
		verr := domain.NewValidationError(domain.ReasonWrongStep, fmt.Sprintf("cannot submit while in step %q", f.step))
		f.mu.Unlock()
		return verr
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		f.lastErr = domain.NewValidationError(domain.ReasonAmountNotPositive, "deposit amount must be positive")
		f.step = StepInput
		verr := f.lastErr
		f.mu.Unlock()
		return verr
	}

	method := input.Method
	if method == "" {
		method = domain.PaymentMethodCard
	}

	f.lastErr = nil
	f.amount = input.Amount
	f.method = method
	f.step = StepProcessing
	f.mu.Unlock()

	// Irrevocable external call; lock released so readers can observe the
	// processing step while the gateway settles.
	err := f.gateway.Submit(ctx, input.Amount, method)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.step = StepFailed
		return fmt.Errorf("payment gateway rejected deposit: %w", err)
	}
	f.step = StepSuccess
	return nil
}

// Close dismisses the flow. Closing from success settles exactly once:
// the wallet is credited and a deposit transaction is logged. Closing from
// any other step is a no-op abandonment.
func (f *Flow) Close(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSuccess || f.settled {
		return false, nil
	}

	if _, err := f.store.AdjustBalance(ctx, f.UserID, f.amount); err != nil {
		return false, fmt.Errorf("failed to credit wallet: %w", err)
	}
	description := fmt.Sprintf("Wallet Deposit via %s", methodLabel(f.method))
	if _, err := f.store.RecordTransaction(f.UserID, domain.TransactionTypeDeposit, f.amount, description); err != nil {
		return false, fmt.Errorf("failed to record deposit transaction: %w", err)
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

// ValidationErr returns the current input validation error, if any.
func (f *Flow) ValidationErr() *domain.ValidationError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func methodLabel(m domain.PaymentMethod) string {
	switch m {
	case domain.PaymentMethodCard:
		return "Card"
	case domain.PaymentMethodTransfer:
		return "Bank Transfer"
	case domain.PaymentMethodUSSD:
		return "USSD"
	default:
		return string(m)
	}
}
