package drift

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ baselineRepo = &baselineRepoMock{}

type baselineRepoMock struct {
	GetFunc    func(ctx context.Context, tenantID string, productID string) (domain.Baseline, error)
	UpsertFunc func(ctx context.Context, b domain.Baseline) error

	calls struct {
		Get []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
		}
		Upsert []struct {
			Ctx context.Context
			B   domain.Baseline
		}
	}
	lockGet    sync.RWMutex
	lockUpsert sync.RWMutex
}

func (mock *baselineRepoMock) Get(ctx context.Context, tenantID string, productID string) (domain.Baseline, error) {
	if mock.GetFunc == nil {
		panic("baselineRepoMock.GetFunc: method is nil but baselineRepo.Get was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
	}{
		Ctx:       ctx,
		TenantID:  tenantID,
		ProductID: productID,
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, tenantID, productID)
}

func (mock *baselineRepoMock) GetCalls() []struct {
	Ctx       context.Context
	TenantID  string
	ProductID string
} {
	var calls []struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
	}
	mock.lockGet.RLock()
	calls = mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *baselineRepoMock) Upsert(ctx context.Context, b domain.Baseline) error {
	if mock.UpsertFunc == nil {
		panic("baselineRepoMock.UpsertFunc: method is nil but baselineRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		B   domain.Baseline
	}{
		Ctx: ctx,
		B:   b,
	}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, b)
}

func (mock *baselineRepoMock) UpsertCalls() []struct {
	Ctx context.Context
	B   domain.Baseline
} {
	var calls []struct {
		Ctx context.Context
		B   domain.Baseline
	}
	mock.lockUpsert.RLock()
	calls = mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
