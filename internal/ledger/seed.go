package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
)

// Fixed UUIDs for the demo marketplace projects so positions and deep links
// can reference them across restarts.
var (
	ProjectGreenHorizon = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	ProjectNeoLogistics = uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
	ProjectSolarGrid    = uuid.MustParse("00000000-0000-0000-0000-0000000000a3")
	ProjectPropTech     = uuid.MustParse("00000000-0000-0000-0000-0000000000a4")
)

// SeedProjects loads the demo marketplace into an empty store.
func (s *Store) SeedProjects() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.projects) > 0 {
		return
	}

	s.projects = []domain.Project{
		{
			ID:             ProjectGreenHorizon,
			Title:          "GreenHorizon Vertical Farm",
			Description:    "Sustainable hydroponic farming facility in urban Lagos.",
			FullDetails:    "GreenHorizon aims to reduce food miles by establishing a 5000 sq ft vertical farm in the city center. We utilize advanced hydroponics to grow leafy greens with 90% less water. We have secured 40% of capital (₦200M) and have a purchase agreement with 3 major supermarket chains. Risks include potential energy cost spikes, though we plan to install solar panels.",
			Owner:          "GreenHorizon Ltd",
			Sector:         domain.SectorAgriculture,
			TargetAmount:   decimal.NewFromInt(500000000),
			RaisedAmount:   decimal.NewFromInt(320000000),
			MinInvestment:  decimal.NewFromInt(50000),
			ROI:            decimal.NewFromInt(18),
			DurationMonths: 12,
			ImageURL:       "https://images.unsplash.com/photo-1530836369250-ef72a3f5cda8?auto=format&fit=crop&q=80&w=1600",
			RiskLevel:      domain.RiskMedium,
			Status:         domain.ProjectStatusActive,
		},
		{
			ID:             ProjectNeoLogistics,
			Title:          "NeoLogistics Fleet Expansion",
			Description:    "Expanding EV delivery fleet for last-mile logistics.",
			FullDetails:    "NeoLogistics is raising funds to purchase 50 electric delivery vans to serve the booming e-commerce sector. We are currently profitable and operating in 3 cities. The funds will be used strictly for asset acquisition. The EVs will lower our operating costs by 30%. Key risks involve potential delays in vehicle manufacturing and delivery.",
			Owner:          "NeoLogistics Inc.",
			Sector:         domain.SectorLogistics,
			TargetAmount:   decimal.NewFromInt(1200000000),
			RaisedAmount:   decimal.NewFromInt(1150000000),
			MinInvestment:  decimal.NewFromInt(100000),
			ROI:            decimal.NewFromInt(12),
			DurationMonths: 24,
			ImageURL:       "https://images.unsplash.com/photo-1617788138017-80ad40651399?auto=format&fit=crop&q=80&w=1600",
			RiskLevel:      domain.RiskLow,
			Status:         domain.ProjectStatusActive,
		},
		{
			ID:             ProjectSolarGrid,
			Title:          "SolarGrid Micro-Utility",
			Description:    "Off-grid solar solution for remote industrial zones.",
			FullDetails:    "SolarGrid plans to deploy a 2MW solar array to power a remote mining cluster. This is a high-yield project with guaranteed offtake agreements. However, the location is remote, posing security and maintenance challenges. We have allocated 15% of the budget to security infrastructure.",
			Owner:          "SunPower Devs",
			Sector:         domain.SectorEnergy,
			TargetAmount:   decimal.NewFromInt(2500000000),
			RaisedAmount:   decimal.NewFromInt(400000000),
			MinInvestment:  decimal.NewFromInt(250000),
			ROI:            decimal.NewFromInt(24),
			DurationMonths: 36,
			ImageURL:       "https://images.unsplash.com/photo-1509391366360-2e959784a276?auto=format&fit=crop&q=80&w=1600",
			RiskLevel:      domain.RiskHigh,
			Status:         domain.ProjectStatusActive,
		},
		{
			ID:             ProjectPropTech,
			Title:          "PropTech AI Analytics",
			Description:    "AI platform for predicting real estate trends.",
			FullDetails:    "Developing a SaaS platform for real estate investors. We have a prototype and 100 beta users. We need funds for scaling server infrastructure and marketing. Tech projects are inherently volatile, but our burn rate is low.",
			Owner:          "DataEstates",
			Sector:         domain.SectorTech,
			TargetAmount:   decimal.NewFromInt(150000000),
			RaisedAmount:   decimal.NewFromInt(20000000),
			MinInvestment:  decimal.NewFromInt(20000),
			ROI:            decimal.NewFromInt(35),
			DurationMonths: 18,
			ImageURL:       "https://images.unsplash.com/photo-1551288049-bebda4e38f71?auto=format&fit=crop&q=80&w=1600",
			RiskLevel:      domain.RiskHigh,
			Status:         domain.ProjectStatusActive,
		},
	}
}

// SeedDemoPortfolio gives a freshly signed-in investor the demo history:
// two existing positions, their matching transaction log, and a handful of
// notifications. Skipped if the user already has positions.
func (s *Store) SeedDemoPortfolio(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return
	}
	if len(s.positions[userID]) > 0 {
		return
	}

	now := time.Now()

	s.positions[userID] = []domain.Investment{
		{
			ID:           uuid.New(),
			ProjectID:    ProjectGreenHorizon,
			Amount:       decimal.NewFromInt(1000000),
			CurrentValue: decimal.NewFromInt(1050000),
			Date:         now.AddDate(0, -3, 0),
		},
		{
			ID:           uuid.New(),
			ProjectID:    ProjectNeoLogistics,
			Amount:       decimal.NewFromInt(5000000),
			CurrentValue: decimal.NewFromInt(5400000),
			Date:         now.AddDate(0, -6, 0),
		},
	}

	s.transactions[userID] = []domain.Transaction{
		{
			ID:          uuid.New(),
			Type:        domain.TransactionTypeDeposit,
			Amount:      decimal.NewFromInt(5000000),
			Date:        now.AddDate(0, -1, 0),
			Description: "Wallet Deposit via Card",
			Status:      domain.TransactionStatusSuccess,
		},
		{
			ID:          uuid.New(),
			Type:        domain.TransactionTypeInvestment,
			Amount:      decimal.NewFromInt(1000000),
			Date:        now.AddDate(0, -3, 0),
			Description: "Inv: GreenHorizon Vertical Farm",
			Status:      domain.TransactionStatusSuccess,
		},
		{
			ID:          uuid.New(),
			Type:        domain.TransactionTypeInvestment,
			Amount:      decimal.NewFromInt(5000000),
			Date:        now.AddDate(0, -6, 0),
			Description: "Inv: NeoLogistics Fleet Expansion",
			Status:      domain.TransactionStatusSuccess,
		},
	}

	s.notifications[userID] = []domain.Notification{
		{
			ID:        uuid.New(),
			Type:      domain.NotificationTypePayment,
			Title:     "Dividend Received",
			Message:   "You received ₦145,000 from GreenHorizon Farm Q1 Payout.",
			Timestamp: now.Add(-2 * time.Hour),
			IsRead:    false,
		},
		{
			ID:        uuid.New(),
			Type:      domain.NotificationTypeProjectUpdate,
			Title:     "NeoLogistics: New Fleet Arrived",
			Message:   "The first batch of 10 EV vans has been delivered and deployed. Operations scaling up by 15% this week.",
			Timestamp: now.AddDate(0, 0, -1),
			IsRead:    false,
			Link:      "/projects/" + ProjectNeoLogistics.String(),
		},
		{
			ID:        uuid.New(),
			Type:      domain.NotificationTypeSystem,
			Title:     "Platform Maintenance",
			Message:   "Scheduled maintenance for Saturday 2:00 AM - 4:00 AM.",
			Timestamp: now.AddDate(0, 0, -2),
			IsRead:    true,
		},
		{
			ID:        uuid.New(),
			Type:      domain.NotificationTypeSecurity,
			Title:     "New Login Detected",
			Message:   "A new login detected from Lagos, NG via Chrome on Windows.",
			Timestamp: now.AddDate(0, 0, -3),
			IsRead:    true,
		},
	}
}
