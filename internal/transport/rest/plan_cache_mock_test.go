package rest

import (
	"context"
	"sync"
)

var _ planCache = &planCacheMock{}

type planCacheMock struct {
	InvalidateFunc func(ctx context.Context, tenantID string) error

	calls struct {
		Invalidate []struct {
			Ctx      context.Context
			TenantID string
		}
	}
	lockInvalidate sync.RWMutex
}

func (mock *planCacheMock) Invalidate(ctx context.Context, tenantID string) error {
	if mock.InvalidateFunc == nil {
		panic("planCacheMock.InvalidateFunc: method is nil but planCache.Invalidate was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
	}{
		Ctx:      ctx,
		TenantID: tenantID,
	}
	mock.lockInvalidate.Lock()
	mock.calls.Invalidate = append(mock.calls.Invalidate, callInfo)
	mock.lockInvalidate.Unlock()
	return mock.InvalidateFunc(ctx, tenantID)
}

func (mock *planCacheMock) InvalidateCalls() []struct {
	Ctx      context.Context
	TenantID string
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
	}
	mock.lockInvalidate.RLock()
	calls = mock.calls.Invalidate
	mock.lockInvalidate.RUnlock()
	return calls
}
