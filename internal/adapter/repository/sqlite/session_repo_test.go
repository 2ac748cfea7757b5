package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopital/loopital-backend/internal/domain"
)

func newTestRepo(t *testing.T) domain.SessionRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewSessionRepository(db)
	require.NoError(t, err)
	return repo
}

func TestSessionRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	user := &domain.User{
		ID:            uuid.New(),
		Name:          "Kingsley David",
		Role:          domain.RoleInvestor,
		WalletBalance: decimal.RequireFromString("15400000.50"),
	}
	require.NoError(t, repo.Save(ctx, user))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	assert.Equal(t, user.Name, loaded.Name)
	assert.Equal(t, domain.RoleInvestor, loaded.Role)
	assert.True(t, loaded.WalletBalance.Equal(user.WalletBalance))
	assert.Empty(t, loaded.CompanyName)
}

// A second save replaces the record: there is only one seat.
func TestSessionRepository_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first := &domain.User{ID: uuid.New(), Name: "Kingsley David", Role: domain.RoleInvestor, WalletBalance: decimal.NewFromInt(15400000)}
	require.NoError(t, repo.Save(ctx, first))

	second := &domain.User{ID: uuid.New(), Name: "Adaeze Obi", Role: domain.RoleProjectOwner, WalletBalance: decimal.NewFromInt(100), CompanyName: "GreenHorizon Ltd"}
	require.NoError(t, repo.Save(ctx, second))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Equal(t, "GreenHorizon Ltd", loaded.CompanyName)
}

func TestSessionRepository_LoadEmpty(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// Deleting with nothing stored is fine
	require.NoError(t, repo.Delete(ctx))

	user := &domain.User{ID: uuid.New(), Name: "Kingsley David", Role: domain.RoleInvestor, WalletBalance: decimal.NewFromInt(15400000)}
	require.NoError(t, repo.Save(ctx, user))
	require.NoError(t, repo.Delete(ctx))

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
