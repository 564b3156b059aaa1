package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ driftLister = &driftListerMock{}

type driftListerMock struct {
	ListOpenFunc func(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error)

	calls struct {
		ListOpen []struct {
			Ctx      context.Context
			TenantID string
			Limit    int
		}
	}
	lockListOpen sync.RWMutex
}

func (mock *driftListerMock) ListOpen(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error) {
	if mock.ListOpenFunc == nil {
		panic("driftListerMock.ListOpenFunc: method is nil but driftLister.ListOpen was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		Limit    int
	}{
		Ctx:      ctx,
		TenantID: tenantID,
		Limit:    limit,
	}
	mock.lockListOpen.Lock()
	mock.calls.ListOpen = append(mock.calls.ListOpen, callInfo)
	mock.lockListOpen.Unlock()
	return mock.ListOpenFunc(ctx, tenantID, limit)
}

func (mock *driftListerMock) ListOpenCalls() []struct {
	Ctx      context.Context
	TenantID string
	Limit    int
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
		Limit    int
	}
	mock.lockListOpen.RLock()
	calls = mock.calls.ListOpen
	mock.lockListOpen.RUnlock()
	return calls
}
