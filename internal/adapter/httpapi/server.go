package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/ledger"
	"github.com/loopital/loopital-backend/internal/usecase/analytics"
	"github.com/loopital/loopital-backend/internal/usecase/riskanalysis"
	"github.com/loopital/loopital-backend/internal/usecase/session"
)

// Server wires the use cases to the HTTP surface
type Server struct {
	store     *ledger.Store
	sessions  *session.Service
	analytics *analytics.Service
	risk      *riskanalysis.Service
	gateway   domain.PaymentGateway
	flows     *flowRegistry
	limiter   *rate.Limiter
}

// NewServer creates a new HTTP API server.
// flowTTL bounds how long an untouched in-progress flow survives.
func NewServer(
	store *ledger.Store,
	sessions *session.Service,
	analyticsSvc *analytics.Service,
	risk *riskanalysis.Service,
	gateway domain.PaymentGateway,
	flowTTL time.Duration,
) *Server {
	return &Server{
		store:     store,
		sessions:  sessions,
		analytics: analyticsSvc,
		risk:      risk,
		gateway:   gateway,
		flows:     newFlowRegistry(flowTTL),
		limiter:   rate.NewLimiter(rate.Every(100*time.Millisecond), 30),
	}
}

// Routes builds the full route tree
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(rateLimitMiddleware(s.limiter))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/restore", s.handleRestore)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/me", s.handleMe)

			r.Get("/wallet", s.handleWallet)
			r.Get("/transactions", s.handleTransactions)

			r.Route("/wallet/deposits", func(r chi.Router) {
				r.Post("/", s.handleDepositStart)
				r.Get("/{flowID}", s.handleDepositState)
				r.Post("/{flowID}/submit", s.handleDepositSubmit)
				r.Post("/{flowID}/close", s.handleDepositClose)
			})

			r.Route("/wallet/withdrawals", func(r chi.Router) {
				r.Post("/", s.handleWithdrawalStart)
				r.Get("/{flowID}", s.handleWithdrawalState)
				r.Post("/{flowID}/submit", s.handleWithdrawalSubmit)
				r.Post("/{flowID}/back", s.handleWithdrawalBack)
				r.Post("/{flowID}/verify", s.handleWithdrawalVerify)
				r.Post("/{flowID}/close", s.handleWithdrawalClose)
			})

			r.Route("/investments", func(r chi.Router) {
				r.Post("/", s.handleInvestmentStart)
				r.Get("/{flowID}", s.handleInvestmentState)
				r.Get("/{flowID}/quote", s.handleInvestmentQuote)
				r.Post("/{flowID}/submit", s.handleInvestmentSubmit)
				r.Post("/{flowID}/close", s.handleInvestmentClose)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.Get("/{projectID}", s.handleGetProject)
				r.Get("/{projectID}/risk-analysis", s.handleRiskAnalysis)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(domain.RoleProjectOwner))
					r.Post("/", s.handleCreateProject)
					r.Get("/mine", s.handleMyProjects)
				})

				r.Group(func(r chi.Router) {
					r.Use(requireRole(domain.RoleAdmin))
					r.Post("/{projectID}/approve", s.handleApproveProject)
					r.Post("/{projectID}/reject", s.handleRejectProject)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(requireRole(domain.RoleAdmin))
				r.Put("/users/{userID}/positions/{investmentID}/value", s.handleRevaluePosition)
			})

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/summary", s.handlePortfolioSummary)
				r.Get("/allocation", s.handleSectorAllocation)
				r.Get("/payouts", s.handlePayoutSchedule)
				r.Get("/positions", s.handlePositions)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Post("/{notificationID}/read", s.handleMarkNotificationRead)
				r.Post("/read-all", s.handleMarkAllNotificationsRead)
			})
		})
	})

	return r
}
