package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/usecase/analytics"
)

type userResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Role          domain.Role     `json:"role"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	CompanyName   string          `json:"companyName,omitempty"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		Role:          u.Role,
		WalletBalance: u.WalletBalance,
		CompanyName:   u.CompanyName,
	}
}

type projectResponse struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	FullDetails    string               `json:"fullDetails"`
	Owner          string               `json:"owner"`
	Sector         domain.Sector        `json:"sector"`
	TargetAmount   decimal.Decimal      `json:"targetAmount"`
	RaisedAmount   decimal.Decimal      `json:"raisedAmount"`
	MinInvestment  decimal.Decimal      `json:"minInvestment"`
	ROI            decimal.Decimal      `json:"roi"`
	DurationMonths int                  `json:"durationMonths"`
	ImageURL       string               `json:"imageUrl"`
	RiskLevel      domain.RiskLevel     `json:"riskLevel"`
	Status         domain.ProjectStatus `json:"status"`
}

func toProjectResponse(p domain.Project) projectResponse {
	return projectResponse{
		ID:             p.ID.String(),
		Title:          p.Title,
		Description:    p.Description,
		FullDetails:    p.FullDetails,
		Owner:          p.Owner,
		Sector:         p.Sector,
		TargetAmount:   p.TargetAmount,
		RaisedAmount:   p.RaisedAmount,
		MinInvestment:  p.MinInvestment,
		ROI:            p.ROI,
		DurationMonths: p.DurationMonths,
		ImageURL:       p.ImageURL,
		RiskLevel:      p.RiskLevel,
		Status:         p.Status,
	}
}

func toProjectResponses(projects []domain.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

type transactionResponse struct {
	ID          string                   `json:"id"`
	Type        domain.TransactionType   `json:"type"`
	Amount      decimal.Decimal          `json:"amount"`
	Date        time.Time                `json:"date"`
	Description string                   `json:"description"`
	Status      domain.TransactionStatus `json:"status"`
}

func toTransactionResponses(txs []domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			ID:          tx.ID.String(),
			Type:        tx.Type,
			Amount:      tx.Amount,
			Date:        tx.Date,
			Description: tx.Description,
			Status:      tx.Status,
		})
	}
	return out
}

type positionResponse struct {
	ID           string          `json:"id"`
	ProjectID    string          `json:"projectId"`
	Amount       decimal.Decimal `json:"amount"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	Date         time.Time       `json:"date"`
}

func toPositionResponses(positions []domain.Investment) []positionResponse {
	out := make([]positionResponse, 0, len(positions))
	for _, inv := range positions {
		out = append(out, positionResponse{
			ID:           inv.ID.String(),
			ProjectID:    inv.ProjectID.String(),
			Amount:       inv.Amount,
			CurrentValue: inv.CurrentValue,
			Date:         inv.Date,
		})
	}
	return out
}

type notificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Timestamp time.Time               `json:"timestamp"`
	IsRead    bool                    `json:"isRead"`
	Link      string                  `json:"link,omitempty"`
}

func toNotificationResponses(notifs []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, notificationResponse{
			ID:        n.ID.String(),
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Timestamp: n.Timestamp,
			IsRead:    n.IsRead,
			Link:      n.Link,
		})
	}
	return out
}

type summaryResponse struct {
	WalletBalance    decimal.Decimal `json:"walletBalance"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	TotalInvested    decimal.Decimal `json:"totalInvested"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	ProfitPercentage decimal.Decimal `json:"profitPercentage"`
}

type allocationResponse struct {
	Sector     domain.Sector   `json:"sector"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

type payoutResponse struct {
	InvestmentID string                 `json:"investmentId"`
	ProjectTitle string                 `json:"projectTitle"`
	Amount       decimal.Decimal        `json:"amount"`
	Date         time.Time              `json:"date"`
	Status       analytics.PayoutStatus `json:"status"`
}

// flowStateResponse is the shared shape for in-progress flow endpoints
type flowStateResponse struct {
	FlowID  string           `json:"flowId"`
	Step    string           `json:"step"`
	Error   *flowErrorBody   `json:"error,omitempty"`
	Settled *bool            `json:"settled,omitempty"`
	Max     *decimal.Decimal `json:"max,omitempty"`
}

type flowErrorBody struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func validationBody(verr *domain.ValidationError) *flowErrorBody {
	if verr == nil {
		return nil
	}
	return &flowErrorBody{Reason: string(verr.Reason), Message: verr.Message}
}
