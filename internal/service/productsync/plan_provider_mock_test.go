package productsync

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ planProvider = &planProviderMock{}

type planProviderMock struct {
	GetPlanPolicyFunc func(ctx context.Context, tenantID string) (domain.PlanPolicy, error)

	calls struct {
		GetPlanPolicy []struct {
			Ctx      context.Context
			TenantID string
		}
	}
	lockGetPlanPolicy sync.RWMutex
}

func (mock *planProviderMock) GetPlanPolicy(ctx context.Context, tenantID string) (domain.PlanPolicy, error) {
	if mock.GetPlanPolicyFunc == nil {
		panic("planProviderMock.GetPlanPolicyFunc: method is nil but planProvider.GetPlanPolicy was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
	}{
		Ctx:      ctx,
		TenantID: tenantID,
	}
	mock.lockGetPlanPolicy.Lock()
	mock.calls.GetPlanPolicy = append(mock.calls.GetPlanPolicy, callInfo)
	mock.lockGetPlanPolicy.Unlock()
	return mock.GetPlanPolicyFunc(ctx, tenantID)
}

func (mock *planProviderMock) GetPlanPolicyCalls() []struct {
	Ctx      context.Context
	TenantID string
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
	}
	mock.lockGetPlanPolicy.RLock()
	calls = mock.calls.GetPlanPolicy
	mock.lockGetPlanPolicy.RUnlock()
	return calls
}
