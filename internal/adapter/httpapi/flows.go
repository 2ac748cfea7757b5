package httpapi

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/usecase/deposit"
	"github.com/loopital/loopital-backend/internal/usecase/investment"
	"github.com/loopital/loopital-backend/internal/usecase/withdrawal"
)

// flowRegistry holds in-progress wallet and investment flows between
// requests. Entries expire after the TTL, which is how abandoned flows
// (client closed the tab) get cleaned up; expiry of an unsettled flow is
// equivalent to closing it early, since settlement only happens through
// explicit flow calls.
type flowRegistry struct {
	cache *gocache.Cache
}

func newFlowRegistry(ttl time.Duration) *flowRegistry {
	return &flowRegistry{cache: gocache.New(ttl, 2*ttl)}
}

func (r *flowRegistry) put(id uuid.UUID, flow any) {
	r.cache.Set(id.String(), flow, gocache.DefaultExpiration)
}

func (r *flowRegistry) remove(id uuid.UUID) {
	r.cache.Delete(id.String())
}

// deposit returns the deposit flow with this id, owned by userID
func (r *flowRegistry) deposit(id, userID uuid.UUID) (*deposit.Flow, error) {
	v, ok := r.cache.Get(id.String())
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	flow, ok := v.(*deposit.Flow)
	if !ok || flow.UserID != userID {
		return nil, domain.ErrFlowNotFound
	}
	return flow, nil
}

// withdrawal returns the withdrawal flow with this id, owned by userID
func (r *flowRegistry) withdrawal(id, userID uuid.UUID) (*withdrawal.Flow, error) {
	v, ok := r.cache.Get(id.String())
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	flow, ok := v.(*withdrawal.Flow)
	if !ok || flow.UserID != userID {
		return nil, domain.ErrFlowNotFound
	}
	return flow, nil
}

// investment returns the investment flow with this id, owned by userID
func (r *flowRegistry) investment(id, userID uuid.UUID) (*investment.Flow, error) {
	v, ok := r.cache.Get(id.String())
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	flow, ok := v.(*investment.Flow)
	if !ok || flow.UserID != userID {
		return nil, domain.ErrFlowNotFound
	}
	return flow, nil
}
