package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/ledger"
	"github.com/loopital/loopital-backend/internal/logger"
	"github.com/loopital/loopital-backend/internal/usecase/analytics"
	"github.com/loopital/loopital-backend/internal/usecase/riskanalysis"
	"github.com/loopital/loopital-backend/internal/usecase/session"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// instantGateway settles immediately; tests never wait on simulated latency
type instantGateway struct{}

func (instantGateway) Submit(context.Context, decimal.Decimal, domain.PaymentMethod) error {
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := ledger.NewStore(nil)
	store.SeedProjects()

	sessions := session.NewService(store, nil, "test-secret-0123456789abcdef0123", time.Hour, 15400000)
	srv := NewServer(
		store,
		sessions,
		analytics.NewService(store),
		riskanalysis.NewService(nil, time.Minute),
		instantGateway{},
		time.Minute,
	)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req, err := http.NewRequest(method, ts.URL+path, &reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func doJSONList(t *testing.T, ts *httptest.Server, path, token string) (*http.Response, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func login(t *testing.T, ts *httptest.Server, name string, role domain.Role, company string) string {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"name":        name,
		"role":        string(role),
		"companyName": company,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, ts, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, ts, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginIssuesStartingBalance(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	resp, body := doJSON(t, ts, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kingsley David", body["name"])
	assert.Equal(t, "15400000", body["walletBalance"])

	// Investors get the demo portfolio on first sign-in
	resp, positions := doJSONList(t, ts, "/api/portfolio/positions", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, positions, 2)
}

func TestDepositFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	resp, body := doJSON(t, ts, http.MethodPost, "/api/wallet/deposits", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	flowID := body["flowId"].(string)
	assert.Equal(t, "input", body["step"])

	resp, body = doJSON(t, ts, http.MethodPost, "/api/wallet/deposits/"+flowID+"/submit", token,
		map[string]any{"amount": "5000000", "method": "card"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["step"])

	// Balance is untouched until the flow is closed
	resp, body = doJSON(t, ts, http.MethodGet, "/api/wallet", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "15400000", body["balance"])

	resp, body = doJSON(t, ts, http.MethodPost, "/api/wallet/deposits/"+flowID+"/close", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["settled"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/wallet", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "20400000", body["balance"])

	// Closed flows are gone from the registry
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/wallet/deposits/"+flowID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDepositRejectsZeroAmount(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	_, body := doJSON(t, ts, http.MethodPost, "/api/wallet/deposits", token, nil)
	flowID := body["flowId"].(string)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/wallet/deposits/"+flowID+"/submit", token,
		map[string]any{"amount": "0"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, string(domain.ReasonAmountNotPositive), body["reason"])
}

func TestWithdrawalFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	resp, body := doJSON(t, ts, http.MethodPost, "/api/wallet/withdrawals", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	flowID := body["flowId"].(string)
	assert.Equal(t, "15400000", body["max"])

	resp, body = doJSON(t, ts, http.MethodPost, "/api/wallet/withdrawals/"+flowID+"/submit", token,
		map[string]any{"amount": "400000", "bank": "GTBank", "accountNumber": "0123456789"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "verification", body["step"])

	// Too-short code keeps the flow in verification
	resp, body = doJSON(t, ts, http.MethodPost, "/api/wallet/withdrawals/"+flowID+"/verify", token,
		map[string]string{"code": "123"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, string(domain.ReasonCodeTooShort), body["reason"])

	resp, body = doJSON(t, ts, http.MethodPost, "/api/wallet/withdrawals/"+flowID+"/verify", token,
		map[string]string{"code": "4321"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["step"])

	resp, body = doJSON(t, ts, http.MethodPost, "/api/wallet/withdrawals/"+flowID+"/close", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["settled"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/wallet", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "15000000", body["balance"])
}

func TestWithdrawalBackEdgeOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	_, body := doJSON(t, ts, http.MethodPost, "/api/wallet/withdrawals", token, nil)
	flowID := body["flowId"].(string)

	doJSON(t, ts, http.MethodPost, "/api/wallet/withdrawals/"+flowID+"/submit", token,
		map[string]any{"amount": "100000", "bank": "UBA", "accountNumber": "5566778899"})

	resp, body := doJSON(t, ts, http.MethodPost, "/api/wallet/withdrawals/"+flowID+"/back", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "input", body["step"])
}

func TestInvestmentFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	projectID := ledger.ProjectGreenHorizon.String()

	resp, body := doJSON(t, ts, http.MethodPost, "/api/investments", token,
		map[string]string{"projectId": projectID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	flowID := body["flowId"].(string)

	resp, body = doJSON(t, ts, http.MethodGet, "/api/investments/"+flowID+"/quote?amount=1000000", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1180000", body["projectedReturn"])
	assert.Equal(t, "180000", body["profit"])

	resp, body = doJSON(t, ts, http.MethodPost, "/api/investments/"+flowID+"/submit", token,
		map[string]any{"amount": "1000000"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["step"])

	// Settlement happened on success entry: wallet debited, project credited
	resp, body = doJSON(t, ts, http.MethodGet, "/api/wallet", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "14400000", body["balance"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/projects/"+projectID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "321000000", body["raisedAmount"])

	// Demo portfolio (2) plus the fresh position, newest first
	resp, positions := doJSONList(t, ts, "/api/portfolio/positions", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, positions, 3)
	assert.Equal(t, "1000000", positions[0]["amount"])
}

func TestInvestmentBelowMinimumOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	_, body := doJSON(t, ts, http.MethodPost, "/api/investments", token,
		map[string]string{"projectId": ledger.ProjectSolarGrid.String()})
	flowID := body["flowId"].(string)

	// SolarGrid minimum is 250,000
	resp, body := doJSON(t, ts, http.MethodPost, "/api/investments/"+flowID+"/submit", token,
		map[string]any{"amount": "100000"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, string(domain.ReasonBelowMinimum), body["reason"])
}

func TestPortfolioEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	resp, body := doJSON(t, ts, http.MethodGet, "/api/portfolio/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "6000000", body["totalInvested"])
	assert.Equal(t, "6450000", body["currentValue"])
	assert.Equal(t, "7.5", body["profitPercentage"])

	resp, allocation := doJSONList(t, ts, "/api/portfolio/allocation", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, allocation, 2)

	resp, payouts := doJSONList(t, ts, "/api/portfolio/payouts", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, payouts, 2)
	assert.Equal(t, "Processing", payouts[0]["status"])
	assert.Equal(t, "Scheduled", payouts[1]["status"])
}

func TestProjectListingAndReview(t *testing.T) {
	ts := newTestServer(t)
	ownerToken := login(t, ts, "Adaeze Obi", domain.RoleProjectOwner, "Obi Estates")
	adminToken := login(t, ts, "Platform Admin", domain.RoleAdmin, "")
	investorToken := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	// Investors cannot list projects
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/projects", investorToken, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	draft := map[string]any{
		"title":          "Obi Towers Phase 2",
		"description":    "Residential towers in Lekki.",
		"fullDetails":    "24-floor residential development with pre-sold units.",
		"sector":         "Real Estate",
		"targetAmount":   "800000000",
		"minInvestment":  "100000",
		"roi":            "20",
		"durationMonths": 30,
		"riskLevel":      "Medium",
	}
	resp, body := doJSON(t, ts, http.MethodPost, "/api/projects", ownerToken, draft)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := body["id"].(string)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "0", body["raisedAmount"])
	assert.Equal(t, "Obi Estates", body["owner"])

	// Owner sees it under their own listings
	resp, mine := doJSONList(t, ts, "/api/projects/mine", ownerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, mine, 1)

	// Only admins review
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/projects/"+projectID+"/approve", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, ts, http.MethodPost, "/api/projects/"+projectID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "active", body["status"])
}

func TestRiskAnalysisSimulatedFallback(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	path := fmt.Sprintf("/api/projects/%s/risk-analysis", ledger.ProjectGreenHorizon)
	resp, body := doJSON(t, ts, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(7), body["riskScore"])
	assert.Equal(t, true, body["simulated"])
}

func TestNotificationsOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Kingsley David", domain.RoleInvestor, "")

	resp, notifs := doJSONList(t, ts, "/api/notifications", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, notifs, 4)

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/notifications/read-all", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, notifs = doJSONList(t, ts, "/api/notifications", token)
	for _, n := range notifs {
		assert.Equal(t, true, n["isRead"])
	}
}

func TestAdminRevaluesPosition(t *testing.T) {
	ts := newTestServer(t)
	investorToken := login(t, ts, "Kingsley David", domain.RoleInvestor, "")
	adminToken := login(t, ts, "Platform Admin", domain.RoleAdmin, "")

	resp, me := doJSON(t, ts, http.MethodGet, "/api/me", investorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	investorID := me["id"].(string)

	resp, positions := doJSONList(t, ts, "/api/portfolio/positions", investorToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, positions)
	positionID := positions[0]["id"].(string)

	path := "/api/users/" + investorID + "/positions/" + positionID + "/value"

	// Revaluation is admin-only
	resp, _ = doJSON(t, ts, http.MethodPut, path, investorToken, map[string]any{"currentValue": "1200000"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPut, path, adminToken, map[string]any{"currentValue": "1200000"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, positions = doJSONList(t, ts, "/api/portfolio/positions", investorToken)
	assert.Equal(t, "1200000", positions[0]["currentValue"])
	// Principal is untouched by revaluation
	assert.Equal(t, "1000000", positions[0]["amount"])
}

func TestFlowOwnership(t *testing.T) {
	ts := newTestServer(t)
	tokenA := login(t, ts, "Kingsley David", domain.RoleInvestor, "")
	tokenB := login(t, ts, "Ngozi Eze", domain.RoleInvestor, "")

	_, body := doJSON(t, ts, http.MethodPost, "/api/wallet/deposits", tokenA, nil)
	flowID := body["flowId"].(string)

	// Another user cannot see or drive the flow
	resp, _ := doJSON(t, ts, http.MethodGet, "/api/wallet/deposits/"+flowID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/wallet/deposits/"+flowID+"/submit", tokenB,
		map[string]any{"amount": "1000"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
