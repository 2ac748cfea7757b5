package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/logger"
	"github.com/loopital/loopital-backend/internal/usecase/session"
)

type loginRequest struct {
	Name        string      `json:"name"`
	Role        domain.Role `json:"role"`
	CompanyName string      `json:"companyName"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// handleLogin issues a fresh mock identity. Any name is accepted; there is
// no password in the demo.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.sessions.Login(r.Context(), session.LoginInput{
		Name:        req.Name,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.L.Info("user signed in", "userID", result.User.ID, "role", result.User.Role)
	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token, User: toUserResponse(result.User)})
}

// handleRestore rebuilds the session from the persisted user record
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	result, err := s.sessions.Restore(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			sendJSONError(w, "no persisted session", http.StatusNotFound)
			return
		}
		sendDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token, User: toUserResponse(result.User)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context()); err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		sendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	user, err := s.sessions.Current(userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
