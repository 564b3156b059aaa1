package remediation

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ baselineKeeper = &baselineKeeperMock{}

type baselineKeeperMock struct {
	AcceptBaselineFunc func(ctx context.Context, tenantID string, productID string, snap domain.Snapshot, fields ...string) error

	calls struct {
		AcceptBaseline []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
			Snap      domain.Snapshot
			Fields    []string
		}
	}
	lockAcceptBaseline sync.RWMutex
}

func (mock *baselineKeeperMock) AcceptBaseline(ctx context.Context, tenantID string, productID string, snap domain.Snapshot, fields ...string) error {
	if mock.AcceptBaselineFunc == nil {
		panic("baselineKeeperMock.AcceptBaselineFunc: method is nil but baselineKeeper.AcceptBaseline was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		Snap      domain.Snapshot
		Fields    []string
	}{
		Ctx:       ctx,
		TenantID:  tenantID,
		ProductID: productID,
		Snap:      snap,
		Fields:    fields,
	}
	mock.lockAcceptBaseline.Lock()
	mock.calls.AcceptBaseline = append(mock.calls.AcceptBaseline, callInfo)
	mock.lockAcceptBaseline.Unlock()
	return mock.AcceptBaselineFunc(ctx, tenantID, productID, snap, fields...)
}

func (mock *baselineKeeperMock) AcceptBaselineCalls() []struct {
	Ctx       context.Context
	TenantID  string
	ProductID string
	Snap      domain.Snapshot
	Fields    []string
} {
	var calls []struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		Snap      domain.Snapshot
		Fields    []string
	}
	mock.lockAcceptBaseline.RLock()
	calls = mock.calls.AcceptBaseline
	mock.lockAcceptBaseline.RUnlock()
	return calls
}
