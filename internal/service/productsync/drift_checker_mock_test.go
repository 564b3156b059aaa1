package productsync

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ driftChecker = &driftCheckerMock{}

type driftCheckerMock struct {
	AcceptBaselineFunc func(ctx context.Context, tenantID string, productID string, snap domain.Snapshot, fields ...string) error
	CheckForDriftFunc  func(ctx context.Context, tenantID string, productID string, snap domain.Snapshot) (domain.DriftCheckResult, error)

	calls struct {
		AcceptBaseline []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
			Snap      domain.Snapshot
			Fields    []string
		}
		CheckForDrift []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
			Snap      domain.Snapshot
		}
	}
	lockAcceptBaseline sync.RWMutex
	lockCheckForDrift  sync.RWMutex
}

func (mock *driftCheckerMock) AcceptBaseline(ctx context.Context, tenantID string, productID string, snap domain.Snapshot, fields ...string) error {
	if mock.AcceptBaselineFunc == nil {
		panic("driftCheckerMock.AcceptBaselineFunc: method is nil but driftChecker.AcceptBaseline was just called")
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

func (mock *driftCheckerMock) AcceptBaselineCalls() []struct {
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

func (mock *driftCheckerMock) CheckForDrift(ctx context.Context, tenantID string, productID string, snap domain.Snapshot) (domain.DriftCheckResult, error) {
	if mock.CheckForDriftFunc == nil {
		panic("driftCheckerMock.CheckForDriftFunc: method is nil but driftChecker.CheckForDrift was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		Snap      domain.Snapshot
	}{
		Ctx:       ctx,
		TenantID:  tenantID,
		ProductID: productID,
		Snap:      snap,
	}
	mock.lockCheckForDrift.Lock()
	mock.calls.CheckForDrift = append(mock.calls.CheckForDrift, callInfo)
	mock.lockCheckForDrift.Unlock()
	return mock.CheckForDriftFunc(ctx, tenantID, productID, snap)
}

func (mock *driftCheckerMock) CheckForDriftCalls() []struct {
	Ctx       context.Context
	TenantID  string
	ProductID string
	Snap      domain.Snapshot
} {
	var calls []struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		Snap      domain.Snapshot
	}
	mock.lockCheckForDrift.RLock()
	calls = mock.calls.CheckForDrift
	mock.lockCheckForDrift.RUnlock()
	return calls
}
