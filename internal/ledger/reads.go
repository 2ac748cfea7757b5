package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
)

// Snapshot is a point-in-time copy of everything the read side needs for one
// user, taken under the store lock so a half-applied investment can never be
// observed.
type Snapshot struct {
	User          domain.User
	Positions     []domain.Investment
	Transactions  []domain.Transaction
	Notifications []domain.Notification
	Projects      []domain.Project
}

// Snapshot copies the user's collections and the project list atomically.
func (s *Store) Snapshot(userID uuid.UUID) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	snap := &Snapshot{
		User:          *user,
		Positions:     append([]domain.Investment(nil), s.positions[userID]...),
		Transactions:  append([]domain.Transaction(nil), s.transactions[userID]...),
		Notifications: append([]domain.Notification(nil), s.notifications[userID]...),
		Projects:      append([]domain.Project(nil), s.projects...),
	}
	return snap, nil
}

// User returns a copy of the stored user record.
func (s *Store) User(userID uuid.UUID) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *user, nil
}

// Balance returns the current wallet balance.
func (s *Store) Balance(userID uuid.UUID) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	return user.WalletBalance, nil
}

// Positions returns the user's investment positions, newest first.
func (s *Store) Positions(userID uuid.UUID) []domain.Investment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Investment(nil), s.positions[userID]...)
}

// Transactions returns the user's transaction log, newest first.
func (s *Store) Transactions(userID uuid.UUID) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Transaction(nil), s.transactions[userID]...)
}

// Notifications returns the user's notifications, newest first.
func (s *Store) Notifications(userID uuid.UUID) []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.notifications[userID]...)
}

// Projects returns all project listings, newest first.
func (s *Store) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Project(nil), s.projects...)
}

// ProjectByID returns a copy of one project.
func (s *Store) ProjectByID(projectID uuid.UUID) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.projectIndexLocked(projectID)
	if idx < 0 {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	return s.projects[idx], nil
}

// ProjectsByOwner returns the projects listed under the given owner name.
func (s *Store) ProjectsByOwner(owner string) []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Project
	for _, p := range s.projects {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out
}
