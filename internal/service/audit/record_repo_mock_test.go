package audit

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ recordRepo = &recordRepoMock{}

type recordRepoMock struct {
	GetFunc            func(ctx context.Context, tenantID string, productID string) (domain.AuditRecord, error)
	ListIncompleteFunc func(ctx context.Context, tenantID string, after *domain.IncompleteCursor, limit int) ([]domain.AuditRecord, error)
	UpsertFunc         func(ctx context.Context, record domain.AuditRecord) (domain.AuditRecord, error)

	calls struct {
		Get []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
		}
		ListIncomplete []struct {
			Ctx      context.Context
			TenantID string
			After    *domain.IncompleteCursor
			Limit    int
		}
		Upsert []struct {
			Ctx    context.Context
			Record domain.AuditRecord
		}
	}
	lockGet            sync.RWMutex
	lockListIncomplete sync.RWMutex
	lockUpsert         sync.RWMutex
}

func (mock *recordRepoMock) Get(ctx context.Context, tenantID string, productID string) (domain.AuditRecord, error) {
	if mock.GetFunc == nil {
		panic("recordRepoMock.GetFunc: method is nil but recordRepo.Get was just called")
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

func (mock *recordRepoMock) GetCalls() []struct {
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

func (mock *recordRepoMock) ListIncomplete(ctx context.Context, tenantID string, after *domain.IncompleteCursor, limit int) ([]domain.AuditRecord, error) {
	if mock.ListIncompleteFunc == nil {
		panic("recordRepoMock.ListIncompleteFunc: method is nil but recordRepo.ListIncomplete was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		After    *domain.IncompleteCursor
		Limit    int
	}{
		Ctx:      ctx,
		TenantID: tenantID,
		After:    after,
		Limit:    limit,
	}
	mock.lockListIncomplete.Lock()
	mock.calls.ListIncomplete = append(mock.calls.ListIncomplete, callInfo)
	mock.lockListIncomplete.Unlock()
	return mock.ListIncompleteFunc(ctx, tenantID, after, limit)
}

func (mock *recordRepoMock) ListIncompleteCalls() []struct {
	Ctx      context.Context
	TenantID string
	After    *domain.IncompleteCursor
	Limit    int
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
		After    *domain.IncompleteCursor
		Limit    int
	}
	mock.lockListIncomplete.RLock()
	calls = mock.calls.ListIncomplete
	mock.lockListIncomplete.RUnlock()
	return calls
}

func (mock *recordRepoMock) Upsert(ctx context.Context, record domain.AuditRecord) (domain.AuditRecord, error) {
	if mock.UpsertFunc == nil {
		panic("recordRepoMock.UpsertFunc: method is nil but recordRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Record domain.AuditRecord
	}{
		Ctx:    ctx,
		Record: record,
	}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, record)
}

func (mock *recordRepoMock) UpsertCalls() []struct {
	Ctx    context.Context
	Record domain.AuditRecord
} {
	var calls []struct {
		Ctx    context.Context
		Record domain.AuditRecord
	}
	mock.lockUpsert.RLock()
	calls = mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
