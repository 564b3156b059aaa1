package report

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ driftCounter = &driftCounterMock{}

type driftCounterMock struct {
	CountForPeriodFunc func(ctx context.Context, tenantID string, start time.Time, end time.Time) (domain.DriftCounts, error)

	calls struct {
		CountForPeriod []struct {
			Ctx      context.Context
			TenantID string
			Start    time.Time
			End      time.Time
		}
	}
	lockCountForPeriod sync.RWMutex
}

func (mock *driftCounterMock) CountForPeriod(ctx context.Context, tenantID string, start time.Time, end time.Time) (domain.DriftCounts, error) {
	if mock.CountForPeriodFunc == nil {
		panic("driftCounterMock.CountForPeriodFunc: method is nil but driftCounter.CountForPeriod was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		Start    time.Time
		End      time.Time
	}{
		Ctx:      ctx,
		TenantID: tenantID,
		Start:    start,
		End:      end,
	}
	mock.lockCountForPeriod.Lock()
	mock.calls.CountForPeriod = append(mock.calls.CountForPeriod, callInfo)
	mock.lockCountForPeriod.Unlock()
	return mock.CountForPeriodFunc(ctx, tenantID, start, end)
}

func (mock *driftCounterMock) CountForPeriodCalls() []struct {
	Ctx      context.Context
	TenantID string
	Start    time.Time
	End      time.Time
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
		Start    time.Time
		End      time.Time
	}
	mock.lockCountForPeriod.RLock()
	calls = mock.calls.CountForPeriod
	mock.lockCountForPeriod.RUnlock()
	return calls
}
