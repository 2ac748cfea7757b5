package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/usecase/deposit"
	"github.com/loopital/loopital-backend/internal/usecase/withdrawal"
)

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)
	balance, err := s.store.Balance(userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"balance": balance})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)
	writeJSON(w, http.StatusOK, toTransactionResponses(s.store.Transactions(userID)))
}

func flowIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "flowID"))
}

// --- deposits ---

func (s *Server) handleDepositStart(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	flow := deposit.NewFlow(s.store, s.gateway, userID)
	s.flows.put(flow.ID, flow)

	writeJSON(w, http.StatusCreated, flowStateResponse{FlowID: flow.ID.String(), Step: string(flow.Step())})
}

func (s *Server) handleDepositState(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.depositFlow(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, flowStateResponse{
		FlowID: flow.ID.String(),
		Step:   string(flow.Step()),
		Error:  validationBody(flow.ValidationErr()),
	})
}

type depositSubmitRequest struct {
	Amount decimal.Decimal      `json:"amount"`
	Method domain.PaymentMethod `json:"method"`
}

func (s *Server) handleDepositSubmit(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.depositFlow(w, r)
	if !ok {
		return
	}

	var req depositSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := flow.Submit(r.Context(), deposit.Input{Amount: req.Amount, Method: req.Method}); err != nil {
		if _, isValidation := domain.IsValidation(err); !isValidation {
			// Gateway failures leave the flow in failed; report the step so
			// the client can offer a retry
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

func (s *Server) handleDepositClose(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.depositFlow(w, r)
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

func (s *Server) depositFlow(w http.ResponseWriter, r *http.Request) (*deposit.Flow, bool) {
	userID, _ := callerID(r)
	id, err := flowIDParam(r)
	if err != nil {
		sendJSONError(w, "invalid flow id", http.StatusBadRequest)
		return nil, false
	}

	flow, err := s.flows.deposit(id, userID)
	if err != nil {
		sendDomainError(w, err)
		return nil, false
	}
	return flow, true
}

// --- withdrawals ---

func (s *Server) handleWithdrawalStart(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	flow := withdrawal.NewFlow(s.store, s.gateway, userID)
	s.flows.put(flow.ID, flow)

	max, err := flow.Max()
	if err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, flowStateResponse{FlowID: flow.ID.String(), Step: string(flow.Step()), Max: &max})
}

func (s *Server) handleWithdrawalState(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.withdrawalFlow(w, r)
	if !ok {
		return
	}

	resp := flowStateResponse{
		FlowID: flow.ID.String(),
		Step:   string(flow.Step()),
		Error:  validationBody(flow.ValidationErr()),
	}
	if max, err := flow.Max(); err == nil {
		resp.Max = &max
	}
	writeJSON(w, http.StatusOK, resp)
}

type withdrawalSubmitRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Bank          string          `json:"bank"`
	AccountNumber string          `json:"accountNumber"`
}

func (s *Server) handleWithdrawalSubmit(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.withdrawalFlow(w, r)
	if !ok {
		return
	}

	var req withdrawalSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := flow.Submit(r.Context(), withdrawal.Input{
		Amount:        req.Amount,
		Bank:          req.Bank,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		sendDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, flowStateResponse{FlowID: flow.ID.String(), Step: string(flow.Step())})
}

func (s *Server) handleWithdrawalBack(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.withdrawalFlow(w, r)
	if !ok {
		return
	}

	if err := flow.Back(); err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flowStateResponse{FlowID: flow.ID.String(), Step: string(flow.Step())})
}

type withdrawalVerifyRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleWithdrawalVerify(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.withdrawalFlow(w, r)
	if !ok {
		return
	}

	var req withdrawalVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := flow.Verify(r.Context(), req.Code); err != nil {
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

func (s *Server) handleWithdrawalClose(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.withdrawalFlow(w, r)
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

func (s *Server) withdrawalFlow(w http.ResponseWriter, r *http.Request) (*withdrawal.Flow, bool) {
	userID, _ := callerID(r)
	id, err := flowIDParam(r)
	if err != nil {
		sendJSONError(w, "invalid flow id", http.StatusBadRequest)
		return nil, false
	}

	flow, err := s.flows.withdrawal(id, userID)
	if err != nil {
		sendDomainError(w, err)
		return nil, false
	}
	return flow, true
}
