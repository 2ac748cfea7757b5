package investment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/ledger"
)

// Step represents the state of an investment flow
type Step string

const (
	StepInput      Step = "input"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
	StepFailed     Step = "failed"
)

// Input is the user-supplied part of an investment.
type Input struct {
	Amount decimal.Decimal
}

// Quote is the advisory return preview shown in the input step. It does not
// affect settlement math: the position always settles at CurrentValue equal
// to the principal.
type Quote struct {
	Amount          decimal.Decimal
	ProjectedReturn decimal.Decimal
	Profit          decimal.Decimal
}

// Flow sequences one investment into a project:
// input -> processing -> success. Unlike the deposit and withdrawal flows,
// settlement happens on entering success, not on flow exit, and the
// terminal callback is invoked exactly once with the settled position.
// The confirmation-to-settlement window is collapsed into one synchronous
// step so no reader can observe a confirmed-but-unapplied investment.
type Flow struct {
	mu sync.Mutex

	ID        uuid.UUID
	UserID    uuid.UUID
	ProjectID uuid.UUID

	step    Step
	amount  decimal.Decimal
	lastErr *domain.ValidationError
	settled bool

	store     *ledger.Store
	gateway   domain.PaymentGateway
	onSettled func(domain.Investment)
}

// NewFlow creates an investment flow for one user and project, starting in
// the input step. onSettled, if non-nil, is the terminal callback; it fires
// exactly once, after the ledger has applied the settlement.
func NewFlow(store *ledger.Store, gateway domain.PaymentGateway, userID, projectID uuid.UUID, onSettled func(domain.Investment)) *Flow {
	return &Flow{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: projectID,
		step:      StepInput,
		store:     store,
		gateway:   gateway,
		onSettled: onSettled,
	}
}

// QuoteFor computes the advisory projected return and profit for an amount:
// projectedReturn = amount * (1 + roi/100), profit = projectedReturn - amount.
func (f *Flow) QuoteFor(amount decimal.Decimal) (Quote, error) {
	project, err := f.store.ProjectByID(f.ProjectID)
	if err != nil {
		return Quote{}, err
	}

	multiplier := decimal.NewFromInt(1).Add(project.ROI.Div(decimal.NewFromInt(100)))
	projected := amount.Mul(multiplier)
	return Quote{
		Amount:          amount,
		ProjectedReturn: projected,
		Profit:          projected.Sub(amount),
	}, nil
}

// Submit validates the amount, runs the simulated gateway call, and on
// success settles the investment through the ledger before returning.
// Validity requires minInvestment <= amount <= wallet balance and an active
// project. Invalid input leaves the flow in input with a structured error
// and the ledger untouched.
func (f *Flow) Submit(ctx context.Context, input Input) error {
	f.mu.Lock()
	if f.step != StepInput && f.step != StepFailed {
		verr := domain.NewValidationError(domain.ReasonWrongStep, fmt.Sprintf("cannot submit while in step %q", f.step))
		f.mu.Unlock()
		return verr
	}

	project, err := f.store.ProjectByID(f.ProjectID)
	if err != nil {
		f.mu.Unlock()
		return err
	}

	if project.Status != domain.ProjectStatusActive {
		f.lastErr = domain.NewValidationError(domain.ReasonProjectNotActive, "project is not open for investment")
		verr := f.lastErr
		f.mu.Unlock()
		return verr
	}

	if input.Amount.LessThan(project.MinInvestment) {
		f.lastErr = domain.NewValidationError(domain.ReasonBelowMinimum, fmt.Sprintf("minimum investment is ₦%s", project.MinInvestment.StringFixed(0)))
		verr := f.lastErr
		f.mu.Unlock()
		return verr
	}

	balance, err := f.store.Balance(f.UserID)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	if input.Amount.GreaterThan(balance) {
		f.lastErr = domain.NewValidationError(domain.ReasonInsufficientFunds, "insufficient balance")
		verr := f.lastErr
		f.mu.Unlock()
		return verr
	}

	f.lastErr = nil
	f.amount = input.Amount
	f.step = StepProcessing
	f.mu.Unlock()

	err = f.gateway.Submit(ctx, input.Amount, domain.PaymentMethodTransfer)

	f.mu.Lock()
	if err != nil {
		f.step = StepFailed
		f.mu.Unlock()
		return fmt.Errorf("payment gateway rejected investment: %w", err)
	}

	// Settle on entry into success. ApplyInvestment re-checks the balance
	// under the ledger lock, so flows racing the same wallet cannot drive
	// it negative.
	inv, err := f.store.ApplyInvestment(ctx, f.UserID, f.ProjectID, f.amount)
	if err != nil {
		f.step = StepFailed
		f.mu.Unlock()
		return fmt.Errorf("failed to settle investment: %w", err)
	}

	f.step = StepSuccess
	f.settled = true
	callback := f.onSettled
	f.onSettled = nil
	f.mu.Unlock()

	if callback != nil {
		callback(inv)
	}
	return nil
}

// Close dismisses the flow. Settlement already happened on entering
// success, so closing never mutates the ledger; closing before success is
// a no-op abandonment.
func (f *Flow) Close(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled, nil
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
