package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role represents the role of a user on the platform
type Role string

const (
	RoleInvestor     Role = "Investor"
	RoleProjectOwner Role = "ProjectOwner"
	RoleAdmin        Role = "Admin"
)

// User represents a user entity in the domain layer
// WalletBalance is mutated only through ledger operations, never directly
type User struct {
	ID            uuid.UUID
	Name          string
	Role          Role
	WalletBalance decimal.Decimal
	CompanyName   string // Only set for ProjectOwner
}

// Validate ensures the user adheres to domain rules
// Returns an error if validation fails
func (u *User) Validate() error {
	if u.Name == "" {
		return errors.New("user name cannot be empty")
	}

	if u.Role != RoleInvestor && u.Role != RoleProjectOwner && u.Role != RoleAdmin {
		return errors.New("user role must be Investor, ProjectOwner, or Admin")
	}

	if u.WalletBalance.LessThan(decimal.Zero) {
		return errors.New("wallet balance cannot be negative")
	}

	// Only project owners carry a company name
	if u.CompanyName != "" && u.Role != RoleProjectOwner {
		return errors.New("company name is only valid for ProjectOwner users")
	}

	return nil
}

// OwnerName returns the name projects are matched against:
// the company name when present, the user name otherwise.
func (u *User) OwnerName() string {
	if u.CompanyName != "" {
		return u.CompanyName
	}
	return u.Name
}
