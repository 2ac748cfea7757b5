package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/logger"
	"github.com/loopital/loopital-backend/internal/usecase/investment"
)

type investmentStartRequest struct {
	ProjectID string `json:"projectId"`
}

func (s *Server) handleInvestmentStart(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	var req investmentStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		sendJSONError(w, "invalid project id", http.StatusBadRequest)
		return
	}
	if _, err := s.store.ProjectByID(projectID); err != nil {
		sendDomainError(w, err)
		return
	}

	flow := investment.NewFlow(s.store, s.gateway, userID, projectID, func(inv domain.Investment) {
		logger.L.Info("investment settled",
			"userID", userID,
			"projectID", projectID,
			"investmentID", inv.ID,
			"amount", inv.Amount.String())
	})
	s.flows.put(flow.ID, flow)

	writeJSON(w, http.StatusCreated, flowStateResponse{FlowID: flow.ID.String(), Step: string(flow.Step())})
}

func (s *Server) handleInvestmentState(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.investmentFlow(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, flowStateResponse{
		FlowID: flow.ID.String(),
		Step:   string(flow.Step()),
		Error:  validationBody(flow.ValidationErr()),
	})
}

type quoteResponse struct {
	Amount          decimal.Decimal `json:"amount"`
	ProjectedReturn decimal.Decimal `json:"projectedReturn"`
	Profit          decimal.Decimal `json:"profit"`
}

// handleInvestmentQuote previews the return for ?amount=N. Advisory only.
func (s *Server) handleInvestmentQuote(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.investmentFlow(w, r)
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		sendJSONError(w, "invalid amount", http.StatusBadRequest)
		return
	}

	quote, err := flow.QuoteFor(amount)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		Amount:          quote.Amount,
		ProjectedReturn: quote.ProjectedReturn,
		Profit:          quote.Profit,
	})
}

type investmentSubmitRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handleInvestmentSubmit(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.investmentFlow(w, r)
	if !ok {
		return
	}

	var req investmentSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := flow.Submit(r.Context(), investment.Input{Amount: req.Amount}); err != nil {
		if _, isValidation := domain.IsValidation(err); !isValidation {
			writeJSON(w, http.StatusBadGateway, flowStateResponse{
				FlowID: flow.ID.String(),
				Step:   string(flow.Step()),
				Error:  &flowErrorBody{Reason: "gateway_failed", Message: err.Error()},
			})
			return
		}
		sendDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, flowStateResponse{FlowID: flow.ID.String(), Step: string(flow.Step())})
}

func (s *Server) handleInvestmentClose(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.investmentFlow(w, r)
	if !ok {
		return
	}

	settled, err := flow.Close(r.Context())
	if err != nil {
		sendDomainError(w, err)
		return
	}
	s.flows.remove(flow.ID)

	writeJSON(w, http.StatusOK, flowStateResponse{FlowID: flow.ID.String(), Step: string(flow.Step()), Settled: &settled})
}

func (s *Server) investmentFlow(w http.ResponseWriter, r *http.Request) (*investment.Flow, bool) {
	userID, _ := callerID(r)
	id, err := flowIDParam(r)
	if err != nil {
		sendJSONError(w, "invalid flow id", http.StatusBadRequest)
		return nil, false
	}

	flow, err := s.flows.investment(id, userID)
	if err != nil {
		sendDomainError(w, err)
		return nil, false
	}
	return flow, true
}
