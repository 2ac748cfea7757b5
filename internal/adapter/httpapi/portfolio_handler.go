package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	summary, err := s.analytics.Summary(userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		WalletBalance:    summary.WalletBalance,
		CurrentValue:     summary.CurrentValue,
		TotalInvested:    summary.TotalInvested,
		TotalProfit:      summary.TotalProfit,
		TotalBalance:     summary.TotalBalance,
		ProfitPercentage: summary.ProfitPercentage,
	})
}

func (s *Server) handleSectorAllocation(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	slices, err := s.analytics.SectorAllocation(userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	out := make([]allocationResponse, 0, len(slices))
	for _, slice := range slices {
		out = append(out, allocationResponse{
			Sector:     slice.Sector,
			Value:      slice.Value,
			Percentage: slice.Percentage,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePayoutSchedule(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	payouts, err := s.analytics.PayoutSchedule(userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	out := make([]payoutResponse, 0, len(payouts))
	for _, p := range payouts {
		out = append(out, payoutResponse{
			InvestmentID: p.InvestmentID.String(),
			ProjectTitle: p.ProjectTitle,
			Amount:       p.Amount,
			Date:         p.Date,
			Status:       p.Status,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)
	writeJSON(w, http.StatusOK, toPositionResponses(s.store.Positions(userID)))
}

type revaluePositionRequest struct {
	CurrentValue decimal.Decimal `json:"currentValue"`
}

// handleRevaluePosition marks a position to a new current value. Admin-only;
// revaluation is an explicit external act, never automatic.
func (s *Server) handleRevaluePosition(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		sendJSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}
	investmentID, err := uuid.Parse(chi.URLParam(r, "investmentID"))
	if err != nil {
		sendJSONError(w, "invalid investment id", http.StatusBadRequest)
		return
	}

	var req revaluePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CurrentValue.LessThan(decimal.Zero) {
		sendJSONError(w, "current value cannot be negative", http.StatusUnprocessableEntity)
		return
	}

	if err := s.store.UpdatePositionValue(userID, investmentID, req.CurrentValue); err != nil {
		sendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
