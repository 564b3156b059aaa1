package remediation

import (
	"context"
	"sync"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ versionStore = &versionStoreMock{}

type versionStoreMock struct {
	RecordVersionFunc func(ctx context.Context, policy domain.PlanPolicy, w domain.VersionWrite) (*domain.FieldVersion, error)
	RevertFunc        func(ctx context.Context, tenantID string, productID string, field string, version int) (string, error)

	calls struct {
		RecordVersion []struct {
			Ctx    context.Context
			Policy domain.PlanPolicy
			W      domain.VersionWrite
		}
		Revert []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
			Field     string
			Version   int
		}
	}
	lockRecordVersion sync.RWMutex
	lockRevert        sync.RWMutex
}

func (mock *versionStoreMock) RecordVersion(ctx context.Context, policy domain.PlanPolicy, w domain.VersionWrite) (*domain.FieldVersion, error) {
	if mock.RecordVersionFunc == nil {
		panic("versionStoreMock.RecordVersionFunc: method is nil but versionStore.RecordVersion was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Policy domain.PlanPolicy
		W      domain.VersionWrite
	}{
		Ctx:    ctx,
		Policy: policy,
		W:      w,
	}
	mock.lockRecordVersion.Lock()
	mock.calls.RecordVersion = append(mock.calls.RecordVersion, callInfo)
	mock.lockRecordVersion.Unlock()
	return mock.RecordVersionFunc(ctx, policy, w)
}

func (mock *versionStoreMock) RecordVersionCalls() []struct {
	Ctx    context.Context
	Policy domain.PlanPolicy
	W      domain.VersionWrite
} {
	var calls []struct {
		Ctx    context.Context
		Policy domain.PlanPolicy
		W      domain.VersionWrite
	}
	mock.lockRecordVersion.RLock()
	calls = mock.calls.RecordVersion
	mock.lockRecordVersion.RUnlock()
	return calls
}

func (mock *versionStoreMock) Revert(ctx context.Context, tenantID string, productID string, field string, version int) (string, error) {
	if mock.RevertFunc == nil {
		panic("versionStoreMock.RevertFunc: method is nil but versionStore.Revert was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		Field     string
		Version   int
	}{
		Ctx:       ctx,
		TenantID:  tenantID,
		ProductID: productID,
		Field:     field,
		Version:   version,
	}
	mock.lockRevert.Lock()
	mock.calls.Revert = append(mock.calls.Revert, callInfo)
	mock.lockRevert.Unlock()
	return mock.RevertFunc(ctx, tenantID, productID, field, version)
}

func (mock *versionStoreMock) RevertCalls() []struct {
	Ctx       context.Context
	TenantID  string
	ProductID string
	Field     string
	Version   int
} {
	var calls []struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		Field     string
		Version   int
	}
	mock.lockRevert.RLock()
	calls = mock.calls.Revert
	mock.lockRevert.RUnlock()
	return calls
}
