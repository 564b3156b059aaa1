package productsync

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ auditor = &auditorMock{}

type auditorMock struct {
	ApplyFunc func(ctx context.Context, tenantID string, productID string, snap domain.Snapshot, autoFixed ...string) (domain.AuditRecord, error)

	calls struct {
		Apply []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
			Snap      domain.Snapshot
			AutoFixed []string
		}
	}
	lockApply sync.RWMutex
}

func (mock *auditorMock) Apply(ctx context.Context, tenantID string, productID string, snap domain.Snapshot, autoFixed ...string) (domain.AuditRecord, error) {
	if mock.ApplyFunc == nil {
		panic("auditorMock.ApplyFunc: method is nil but auditor.Apply was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		Snap      domain.Snapshot
		AutoFixed []string
	}{
		Ctx:       ctx,
		TenantID:  tenantID,
		ProductID: productID,
		Snap:      snap,
		AutoFixed: autoFixed,
	}
	mock.lockApply.Lock()
	mock.calls.Apply = append(mock.calls.Apply, callInfo)
	mock.lockApply.Unlock()
	return mock.ApplyFunc(ctx, tenantID, productID, snap, autoFixed...)
}

func (mock *auditorMock) ApplyCalls() []struct {
	Ctx       context.Context
	TenantID  string
	ProductID string
	Snap      domain.Snapshot
	AutoFixed []string
} {
	var calls []struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		Snap      domain.Snapshot
		AutoFixed []string
	}
	mock.lockApply.RLock()
	calls = mock.calls.Apply
	mock.lockApply.RUnlock()
	return calls
}
