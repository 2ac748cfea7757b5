package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/logger"
	"github.com/loopital/loopital-backend/internal/usecase/riskanalysis"
)

func projectIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "projectID"))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProjectResponses(s.store.Projects()))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r)
	if err != nil {
		sendJSONError(w, "invalid project id", http.StatusBadRequest)
		return
	}

	project, err := s.store.ProjectByID(projectID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

type createProjectRequest struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	FullDetails    string           `json:"fullDetails"`
	Sector         domain.Sector    `json:"sector"`
	TargetAmount   decimal.Decimal  `json:"targetAmount"`
	MinInvestment  decimal.Decimal  `json:"minInvestment"`
	ROI            decimal.Decimal  `json:"roi"`
	DurationMonths int              `json:"durationMonths"`
	ImageURL       string           `json:"imageUrl"`
	RiskLevel      domain.RiskLevel `json:"riskLevel"`
}

// handleCreateProject lists a new project draft under the calling owner.
// The listing starts pending with nothing raised; only admin review can
// activate it.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	user, err := s.store.User(userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	project, err := s.store.AddProject(domain.ProjectDraft{
		Title:          req.Title,
		Description:    req.Description,
		FullDetails:    req.FullDetails,
		Owner:          user.OwnerName(),
		Sector:         req.Sector,
		TargetAmount:   req.TargetAmount,
		MinInvestment:  req.MinInvestment,
		ROI:            req.ROI,
		DurationMonths: req.DurationMonths,
		ImageURL:       req.ImageURL,
		RiskLevel:      req.RiskLevel,
	})
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	logger.L.Info("project listed", "projectID", project.ID, "owner", project.Owner)
	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

func (s *Server) handleMyProjects(w http.ResponseWriter, r *http.Request) {
	userID, _ := callerID(r)

	user, err := s.store.User(userID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponses(s.store.ProjectsByOwner(user.OwnerName())))
}

func (s *Server) handleApproveProject(w http.ResponseWriter, r *http.Request) {
	s.reviewProject(w, r, domain.ProjectStatusActive)
}

func (s *Server) handleRejectProject(w http.ResponseWriter, r *http.Request) {
	s.reviewProject(w, r, domain.ProjectStatusRejected)
}

func (s *Server) reviewProject(w http.ResponseWriter, r *http.Request, status domain.ProjectStatus) {
	projectID, err := projectIDParam(r)
	if err != nil {
		sendJSONError(w, "invalid project id", http.StatusBadRequest)
		return
	}

	if err := s.store.SetProjectStatus(projectID, status); err != nil {
		sendDomainError(w, err)
		return
	}

	project, err := s.store.ProjectByID(projectID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	logger.L.Info("project reviewed", "projectID", projectID, "status", status)
	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

// handleRiskAnalysis returns the advisory AI risk report for a project
func (s *Server) handleRiskAnalysis(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDParam(r)
	if err != nil {
		sendJSONError(w, "invalid project id", http.StatusBadRequest)
		return
	}

	project, err := s.store.ProjectByID(projectID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	report, err := s.risk.Analyze(r.Context(), project)
	if err != nil {
		if errors.Is(err, riskanalysis.ErrAnalysisFailed) {
			sendJSONError(w, err.Error(), http.StatusBadGateway)
			return
		}
		sendDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
