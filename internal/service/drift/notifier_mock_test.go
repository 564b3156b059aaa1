package drift

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ notifier = &notifierMock{}

type notifierMock struct {
	NotifyFunc func(ctx context.Context, tenantID string, kind domain.NotificationKind, payload any) bool

	calls struct {
		Notify []struct {
			Ctx      context.Context
			TenantID string
			Kind     domain.NotificationKind
			Payload  any
		}
	}
	lockNotify sync.RWMutex
}

func (mock *notifierMock) Notify(ctx context.Context, tenantID string, kind domain.NotificationKind, payload any) bool {
	if mock.NotifyFunc == nil {
		panic("notifierMock.NotifyFunc: method is nil but notifier.Notify was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		Kind     domain.NotificationKind
		Payload  any
	}{
		Ctx:      ctx,
		TenantID: tenantID,
		Kind:     kind,
		Payload:  payload,
	}
	mock.lockNotify.Lock()
	mock.calls.Notify = append(mock.calls.Notify, callInfo)
	mock.lockNotify.Unlock()
	return mock.NotifyFunc(ctx, tenantID, kind, payload)
}

func (mock *notifierMock) NotifyCalls() []struct {
	Ctx      context.Context
	TenantID string
	Kind     domain.NotificationKind
	Payload  any
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
		Kind     domain.NotificationKind
		Payload  any
	}
	mock.lockNotify.RLock()
	calls = mock.calls.Notify
	mock.lockNotify.RUnlock()
	return calls
}
