package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/ledger"
)

// ErrInvalidToken is returned when a bearer token fails verification
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the JWT claims carried by an access token
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// LoginInput contains the identity chosen on the sign-in screen. There is no
// password: authentication is simulated and any name is accepted.
type LoginInput struct {
	Name        string
	Role        domain.Role
	CompanyName string
}

// LoginResult is the issued identity plus its access token
type LoginResult struct {
	User  domain.User
	Token string
}

// Service issues and restores mock identities. A login fabricates a user
// with the demo starting balance, registers it with the ledger and persists
// it so the wallet survives a restart.
type Service struct {
	store           *ledger.Store
	sessions        domain.SessionRepository
	jwtSecret       []byte
	tokenExpiry     time.Duration
	startingBalance decimal.Decimal
}

// NewService creates a new session Service instance
func NewService(store *ledger.Store, sessions domain.SessionRepository, jwtSecret string, tokenExpiry time.Duration, startingBalance int64) *Service {
	return &Service{
		store:           store,
		sessions:        sessions,
		jwtSecret:       []byte(jwtSecret),
		tokenExpiry:     tokenExpiry,
		startingBalance: decimal.NewFromInt(startingBalance),
	}
}

// Login issues a fresh identity.
// Logic:
//  1. Validate the chosen name and role.
//  2. Fabricate the user with the demo starting balance.
//  3. Register it with the ledger, which also persists it.
//  4. Seed the demo portfolio for investors.
//  5. Sign an access token for the new identity.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user := &domain.User{
		ID:            uuid.New(),
		Name:          input.Name,
		Role:          input.Role,
		WalletBalance: s.startingBalance,
		CompanyName:   input.CompanyName,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.RegisterUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if user.Role == domain.RoleInvestor {
		s.store.SeedDemoPortfolio(user.ID)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: *user, Token: token}, nil
}

// Restore rebuilds the session from the persisted user record, keeping the
// wallet balance it was saved with. Returns ErrUserNotFound when nothing is
// persisted.
func (s *Service) Restore(ctx context.Context) (*LoginResult, error) {
	if s.sessions == nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.RegisterUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register restored user: %w", err)
	}
	if user.Role == domain.RoleInvestor {
		s.store.SeedDemoPortfolio(user.ID)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: *user, Token: token}, nil
}

// Logout discards the persisted record. The in-memory ledger keeps the user
// until the process exits.
func (s *Service) Logout(ctx context.Context) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Delete(ctx)
}

// Current returns the ledger's view of the authenticated user
func (s *Service) Current(userID uuid.UUID) (domain.User, error) {
	return s.store.User(userID)
}

// VerifyToken checks a bearer token and returns its claims
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
