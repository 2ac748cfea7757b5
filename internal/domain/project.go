package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sector represents the industry sector of a project
type Sector string

const (
	SectorRealEstate  Sector = "Real Estate"
	SectorAgriculture Sector = "Agriculture"
	SectorTech        Sector = "Technology"
	SectorEnergy      Sector = "Energy"
	SectorLogistics   Sector = "Logistics"
)

// RiskLevel is the manual risk classification assigned at listing time
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ProjectStatus represents the lifecycle status of a project listing
type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusRejected  ProjectStatus = "rejected"
)

// Project represents an investable opportunity in the domain layer
// RaisedAmount is mutated only by investment settlement; Status only by admin review
type Project struct {
	ID             uuid.UUID
	Title          string
	Description    string
	FullDetails    string // Longer free text, input to risk analysis
	Owner          string // Matched against User.OwnerName()
	Sector         Sector
	TargetAmount   decimal.Decimal
	RaisedAmount   decimal.Decimal
	MinInvestment  decimal.Decimal
	ROI            decimal.Decimal // Percentage
	DurationMonths int
	ImageURL       string
	RiskLevel      RiskLevel
	Status         ProjectStatus
}

// ProjectDraft is the owner-supplied part of a new listing.
// ID, RaisedAmount, and Status are assigned by the ledger on creation:
// owners cannot self-publish.
type ProjectDraft struct {
	Title          string
	Description    string
	FullDetails    string
	Owner          string
	Sector         Sector
	TargetAmount   decimal.Decimal
	MinInvestment  decimal.Decimal
	ROI            decimal.Decimal
	DurationMonths int
	ImageURL       string
	RiskLevel      RiskLevel
}

// Validate ensures the draft adheres to domain rules
// Returns an error if validation fails
func (d *ProjectDraft) Validate() error {
	if d.Title == "" {
		return errors.New("project title cannot be empty")
	}

	if d.Owner == "" {
		return errors.New("project owner cannot be empty")
	}

	switch d.Sector {
	case SectorRealEstate, SectorAgriculture, SectorTech, SectorEnergy, SectorLogistics:
	default:
		return errors.New("project sector is not a recognised sector")
	}

	if d.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return errors.New("project target amount must be positive")
	}

	if d.MinInvestment.LessThanOrEqual(decimal.Zero) {
		return errors.New("project minimum investment must be positive")
	}

	if d.MinInvestment.GreaterThan(d.TargetAmount) {
		return errors.New("project minimum investment cannot exceed target amount")
	}

	if d.ROI.LessThan(decimal.Zero) {
		return errors.New("project ROI cannot be negative")
	}

	if d.DurationMonths <= 0 {
		return errors.New("project duration must be at least one month")
	}

	return nil
}
