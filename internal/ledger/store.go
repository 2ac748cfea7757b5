package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/logger"
)

// Store is the single source of truth for wallet balances, investment
// positions, transaction logs, notifications, and project funding totals.
// It is the only component permitted to mutate them.
//
// Every mutation and every read runs under one mutex, so concurrent flow
// completions cannot interleave into an inconsistent balance and a reader
// always observes either the full pre-state or the full post-state of a
// multi-effect mutation.
//
// The store enforces data consistency only. Business rules (sufficient
// funds, minimum ticket size) are validated by the flow controllers before
// they call in; the store trusts its callers.
type Store struct {
	mu sync.Mutex

	users         map[uuid.UUID]*domain.User
	positions     map[uuid.UUID][]domain.Investment
	transactions  map[uuid.UUID][]domain.Transaction
	notifications map[uuid.UUID][]domain.Notification
	projects      []domain.Project

	sessions domain.SessionRepository
}

// NewStore creates a new Store instance.
// sessions receives the updated user record on every balance change; it may
// be nil, in which case nothing is persisted.
func NewStore(sessions domain.SessionRepository) *Store {
	return &Store{
		users:         make(map[uuid.UUID]*domain.User),
		positions:     make(map[uuid.UUID][]domain.Investment),
		transactions:  make(map[uuid.UUID][]domain.Transaction),
		notifications: make(map[uuid.UUID][]domain.Notification),
		sessions:      sessions,
	}
}

// RegisterUser adds a user to the store. Called once per sign-in.
func (s *Store) RegisterUser(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	s.users[u.ID] = &u
	s.persistLocked(ctx, &u)
	return nil
}

// SetBalance replaces the stored wallet balance and persists the updated
// user record. This is a bookkeeping primitive: it performs no business
// validation, and callers are responsible for never invoking it with a
// result that would leave the balance negative.
func (s *Store) SetBalance(ctx context.Context, userID uuid.UUID, newBalance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}

	user.WalletBalance = newBalance
	s.persistLocked(ctx, user)
	return nil
}

// AdjustBalance applies a delta to the wallet balance as a single atomic
// update relative to the latest stored value, so concurrent flow completions
// cannot lose each other's settlements through stale read-modify-writes.
//
// A debit that would drive the balance negative returns ErrInsufficientFunds
// and leaves the balance untouched. Flows pre-validate for user feedback;
// this check is the consistency backstop for races between flows that each
// validated against the same starting balance.
func (s *Store) AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}

	next := user.WalletBalance.Add(delta)
	if next.LessThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}

	user.WalletBalance = next
	s.persistLocked(ctx, user)
	return next, nil
}

// RecordTransaction synthesizes an id and timestamp and prepends a
// success-status transaction to the user's log. A logging primitive, not a
// payment rail: it always succeeds for a known user.
func (s *Store) RecordTransaction(userID uuid.UUID, txType domain.TransactionType, amount decimal.Decimal, description string) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return domain.Transaction{}, domain.ErrUserNotFound
	}

	tx := s.recordTransactionLocked(userID, txType, amount, description)
	return tx, nil
}

// ApplyInvestment performs the full settlement effect set as one logical unit:
//  1. Decrement the wallet balance by amount
//  2. Create and store a new Investment with CurrentValue = amount
//  3. Log an "investment" transaction ("Inv: <project title>")
//  4. Increment the project's RaisedAmount by amount
//  5. Append a project_update notification announcing the investment
//
// Preconditions (amount >= project minimum, amount <= wallet balance) are
// checked by the investment flow before this is invoked. The balance check
// is repeated here under the lock as the consistency backstop for flows
// racing the same wallet; a failed backstop applies no effect at all.
//
// RaisedAmount is allowed to exceed TargetAmount: overfunding is accepted,
// matching platform policy of leaving the cap to project review.
func (s *Store) ApplyInvestment(ctx context.Context, userID, projectID uuid.UUID, amount decimal.Decimal) (domain.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.Investment{}, domain.ErrUserNotFound
	}

	idx := s.projectIndexLocked(projectID)
	if idx < 0 {
		return domain.Investment{}, domain.ErrProjectNotFound
	}
	project := &s.projects[idx]

	if user.WalletBalance.LessThan(amount) {
		return domain.Investment{}, domain.ErrInsufficientFunds
	}

	now := time.Now()

	// 1. Debit wallet
	user.WalletBalance = user.WalletBalance.Sub(amount)

	// 2. Create position; value starts unrealized at the principal
	inv := domain.Investment{
		ID:           uuid.New(),
		ProjectID:    projectID,
		Amount:       amount,
		CurrentValue: amount,
		Date:         now,
	}
	s.positions[userID] = append([]domain.Investment{inv}, s.positions[userID]...)

	// 3. Log transaction
	s.recordTransactionLocked(userID, domain.TransactionTypeInvestment, amount, fmt.Sprintf("Inv: %s", project.Title))

	// 4. Credit project funding total
	project.RaisedAmount = project.RaisedAmount.Add(amount)

	// 5. Notify
	s.notifications[userID] = append([]domain.Notification{{
		ID:        uuid.New(),
		Type:      domain.NotificationTypeProjectUpdate,
		Title:     "Investment Confirmed",
		Message:   fmt.Sprintf("You have successfully invested ₦%s in %s.", amount.StringFixed(0), project.Title),
		Timestamp: now,
		IsRead:    false,
	}}, s.notifications[userID]...)

	s.persistLocked(ctx, user)
	return inv, nil
}

// AddProject creates a new project listing from an owner-supplied draft.
// The store assigns the id and forces RaisedAmount to zero and Status to
// pending regardless of the draft: owners cannot self-publish; listings
// require admin approval before becoming active.
func (s *Store) AddProject(draft domain.ProjectDraft) (domain.Project, error) {
	if err := draft.Validate(); err != nil {
		return domain.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	project := domain.Project{
		ID:             uuid.New(),
		Title:          draft.Title,
		Description:    draft.Description,
		FullDetails:    draft.FullDetails,
		Owner:          draft.Owner,
		Sector:         draft.Sector,
		TargetAmount:   draft.TargetAmount,
		RaisedAmount:   decimal.Zero,
		MinInvestment:  draft.MinInvestment,
		ROI:            draft.ROI,
		DurationMonths: draft.DurationMonths,
		ImageURL:       draft.ImageURL,
		RiskLevel:      draft.RiskLevel,
		Status:         domain.ProjectStatusPending,
	}

	s.projects = append([]domain.Project{project}, s.projects...)
	return project, nil
}

// SetProjectStatus changes a project's lifecycle status. This is the admin
// review mutation point (approve, reject, mark completed).
func (s *Store) SetProjectStatus(projectID uuid.UUID, status domain.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.projectIndexLocked(projectID)
	if idx < 0 {
		return domain.ErrProjectNotFound
	}
	s.projects[idx].Status = status
	return nil
}

// UpdatePositionValue revalues a position's mark-to-model CurrentValue.
// Principal and settlement history are untouched. Unknown ids are an error;
// revaluation is an explicit external act, not a silent no-op.
func (s *Store) UpdatePositionValue(userID, investmentID uuid.UUID, newValue decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.positions[userID]
	for i := range list {
		if list[i].ID == investmentID {
			list[i].CurrentValue = newValue
			return nil
		}
	}
	return fmt.Errorf("position %s not found for user %s", investmentID, userID)
}

// MarkNotificationRead flips a notification's IsRead flag.
// Idempotent; unknown ids are a no-op.
func (s *Store) MarkNotificationRead(userID, notificationID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.notifications[userID]
	for i := range list {
		if list[i].ID == notificationID {
			list[i].IsRead = true
			return
		}
	}
}

// MarkAllNotificationsRead flips every notification to read. Idempotent.
func (s *Store) MarkAllNotificationsRead(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.notifications[userID]
	for i := range list {
		list[i].IsRead = true
	}
}

// PushNotification appends a notification for a user. Used for security and
// system events originating outside investment settlement.
func (s *Store) PushNotification(userID uuid.UUID, n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	s.notifications[userID] = append([]domain.Notification{n}, s.notifications[userID]...)
}

// recordTransactionLocked prepends a transaction; caller holds the lock.
func (s *Store) recordTransactionLocked(userID uuid.UUID, txType domain.TransactionType, amount decimal.Decimal, description string) domain.Transaction {
	tx := domain.Transaction{
		ID:          uuid.New(),
		Type:        txType,
		Amount:      amount,
		Date:        time.Now(),
		Description: description,
		Status:      domain.TransactionStatusSuccess,
	}
	s.transactions[userID] = append([]domain.Transaction{tx}, s.transactions[userID]...)
	return tx
}

// persistLocked mirrors the user record to the session repository.
// The in-memory ledger stays authoritative: a persistence failure is logged
// and does not roll back the mutation, mirroring local-device storage
// semantics. Caller holds the lock.
func (s *Store) persistLocked(ctx context.Context, user *domain.User) {
	if s.sessions == nil {
		return
	}
	u := *user
	if err := s.sessions.Save(ctx, &u); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to persist user record", "userID", u.ID, "error", err)
		}
	}
}

func (s *Store) projectIndexLocked(projectID uuid.UUID) int {
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			return i
		}
	}
	return -1
}
