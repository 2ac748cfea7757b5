package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/ledger"
)

// PayoutStatus marks where a projected payout sits in the schedule
type PayoutStatus string

const (
	PayoutStatusProcessing PayoutStatus = "Processing"
	PayoutStatusScheduled  PayoutStatus = "Scheduled"
)

// PortfolioSummary is the headline read-side view of one user's portfolio
type PortfolioSummary struct {
	WalletBalance    decimal.Decimal
	CurrentValue     decimal.Decimal
	TotalInvested    decimal.Decimal
	TotalProfit      decimal.Decimal
	TotalBalance     decimal.Decimal
	ProfitPercentage decimal.Decimal
}

// SectorSlice is one sector's share of the portfolio's current value
type SectorSlice struct {
	Sector     domain.Sector
	Value      decimal.Decimal
	Percentage decimal.Decimal
}

// Payout is one projected payout line. Illustrative projection only;
// nothing is scheduled or persisted.
type Payout struct {
	InvestmentID uuid.UUID
	ProjectTitle string
	Amount       decimal.Decimal
	Date         time.Time
	Status       PayoutStatus
}

// Service computes derived analytics over a ledger snapshot. Pure reads:
// nothing here mutates, and every call recomputes from the current state.
type Service struct {
	store *ledger.Store
}

// NewService creates a new analytics Service instance
func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

// Summary computes the portfolio totals:
//   - currentValue  = sum of position current values
//   - totalInvested = sum of position principals
//   - totalProfit   = currentValue - totalInvested
//   - totalBalance  = wallet balance + currentValue
//   - profitPercentage = totalProfit / totalInvested * 100, defined as 0
//     when nothing is invested so it is never NaN
func (s *Service) Summary(userID uuid.UUID) (*PortfolioSummary, error) {
	snap, err := s.store.Snapshot(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot ledger: %w", err)
	}

	currentValue := decimal.Zero
	totalInvested := decimal.Zero
	for _, inv := range snap.Positions {
		currentValue = currentValue.Add(inv.CurrentValue)
		totalInvested = totalInvested.Add(inv.Amount)
	}

	totalProfit := currentValue.Sub(totalInvested)

	profitPercentage := decimal.Zero
	if totalInvested.GreaterThan(decimal.Zero) {
		profitPercentage = totalProfit.Div(totalInvested).Mul(decimal.NewFromInt(100))
	}

	return &PortfolioSummary{
		WalletBalance:    snap.User.WalletBalance,
		CurrentValue:     currentValue,
		TotalInvested:    totalInvested,
		TotalProfit:      totalProfit,
		TotalBalance:     snap.User.WalletBalance.Add(currentValue),
		ProfitPercentage: profitPercentage,
	}, nil
}

// SectorAllocation groups current value by each position's project sector.
// Percentages are shares of total current value, 0 when nothing is held.
// Slices follow first appearance order in the position list.
func (s *Service) SectorAllocation(userID uuid.UUID) ([]SectorSlice, error) {
	snap, err := s.store.Snapshot(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot ledger: %w", err)
	}

	projectSectors := make(map[uuid.UUID]domain.Sector, len(snap.Projects))
	for _, p := range snap.Projects {
		projectSectors[p.ID] = p.Sector
	}

	totals := make(map[domain.Sector]decimal.Decimal)
	var order []domain.Sector
	currentValue := decimal.Zero

	for _, inv := range snap.Positions {
		sector, ok := projectSectors[inv.ProjectID]
		if !ok {
			continue
		}
		if _, seen := totals[sector]; !seen {
			order = append(order, sector)
		}
		totals[sector] = totals[sector].Add(inv.CurrentValue)
		currentValue = currentValue.Add(inv.CurrentValue)
	}

	slices := make([]SectorSlice, 0, len(order))
	for _, sector := range order {
		value := totals[sector]
		percentage := decimal.Zero
		if currentValue.GreaterThan(decimal.Zero) {
			percentage = value.Div(currentValue).Mul(decimal.NewFromInt(100))
		}
		slices = append(slices, SectorSlice{Sector: sector, Value: value, Percentage: percentage})
	}
	return slices, nil
}

// PayoutSchedule projects one payout per position at a fixed 14-day cadence
// indexed by the position's order in the list. Amount is a synthetic
// quarterly dividend estimate: principal * (roi/100) / 4. The first
// position is flagged Processing, the rest Scheduled.
func (s *Service) PayoutSchedule(userID uuid.UUID) ([]Payout, error) {
	snap, err := s.store.Snapshot(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot ledger: %w", err)
	}

	projects := make(map[uuid.UUID]domain.Project, len(snap.Projects))
	for _, p := range snap.Projects {
		projects[p.ID] = p
	}

	now := time.Now()
	payouts := make([]Payout, 0, len(snap.Positions))
	for i, inv := range snap.Positions {
		title := "Unknown Project"
		roi := decimal.NewFromInt(10)
		if p, ok := projects[inv.ProjectID]; ok {
			title = p.Title
			roi = p.ROI
		}

		status := PayoutStatusScheduled
		if i == 0 {
			status = PayoutStatusProcessing
		}

		payouts = append(payouts, Payout{
			InvestmentID: inv.ID,
			ProjectTitle: title,
			Amount:       inv.Amount.Mul(roi.Div(decimal.NewFromInt(100))).Div(decimal.NewFromInt(4)),
			Date:         now.AddDate(0, 0, (i+1)*14),
			Status:       status,
		})
	}
	return payouts, nil
}
