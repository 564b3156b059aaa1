package audit

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ catalogClient = &catalogClientMock{}

type catalogClientMock struct {
	FetchSnapshotFunc func(ctx context.Context, tenantID string, productID string) (domain.Snapshot, error)

	calls struct {
		FetchSnapshot []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
		}
	}
	lockFetchSnapshot sync.RWMutex
}

func (mock *catalogClientMock) FetchSnapshot(ctx context.Context, tenantID string, productID string) (domain.Snapshot, error) {
	if mock.FetchSnapshotFunc == nil {
		panic("catalogClientMock.FetchSnapshotFunc: method is nil but catalogClient.FetchSnapshot was just called")
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
	mock.lockFetchSnapshot.Lock()
	mock.calls.FetchSnapshot = append(mock.calls.FetchSnapshot, callInfo)
	mock.lockFetchSnapshot.Unlock()
	return mock.FetchSnapshotFunc(ctx, tenantID, productID)
}

func (mock *catalogClientMock) FetchSnapshotCalls() []struct {
	Ctx       context.Context
	TenantID  string
	ProductID string
} {
	var calls []struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
	}
	mock.lockFetchSnapshot.RLock()
	calls = mock.calls.FetchSnapshot
	mock.lockFetchSnapshot.RUnlock()
	return calls
}
