package drift

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ driftRepo = &driftRepoMock{}

type driftRepoMock struct {
	CreateFunc               func(ctx context.Context, rec domain.DriftRecord) (domain.DriftRecord, error)
	ListOpenFunc             func(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error)
	ListOpenByProductFunc    func(ctx context.Context, tenantID string, productID string) (map[string]domain.DriftRecord, error)
	ResolveFunc              func(ctx context.Context, id uuid.UUID, at time.Time) (domain.DriftRecord, error)
	ResolveAllForProductFunc func(ctx context.Context, tenantID string, productID string, at time.Time) ([]domain.DriftRecord, error)
	UpdateObservedFunc       func(ctx context.Context, id uuid.UUID, observed string, severity domain.DriftSeverity, detectedAt time.Time) (domain.DriftRecord, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			Rec domain.DriftRecord
		}
		ListOpen []struct {
			Ctx      context.Context
			TenantID string
			Limit    int
		}
		ListOpenByProduct []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
		}
		Resolve []struct {
			Ctx context.Context
			Id  uuid.UUID
			At  time.Time
		}
		ResolveAllForProduct []struct {
			Ctx       context.Context
			TenantID  string
			ProductID string
			At        time.Time
		}
		UpdateObserved []struct {
			Ctx        context.Context
			Id         uuid.UUID
			Observed   string
			Severity   domain.DriftSeverity
			DetectedAt time.Time
		}
	}
	lockCreate               sync.RWMutex
	lockListOpen             sync.RWMutex
	lockListOpenByProduct    sync.RWMutex
	lockResolve              sync.RWMutex
	lockResolveAllForProduct sync.RWMutex
	lockUpdateObserved       sync.RWMutex
}

func (mock *driftRepoMock) Create(ctx context.Context, rec domain.DriftRecord) (domain.DriftRecord, error) {
	if mock.CreateFunc == nil {
		panic("driftRepoMock.CreateFunc: method is nil but driftRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Rec domain.DriftRecord
	}{
		Ctx: ctx,
		Rec: rec,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, rec)
}

func (mock *driftRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Rec domain.DriftRecord
} {
	var calls []struct {
		Ctx context.Context
		Rec domain.DriftRecord
	}
	mock.lockCreate.RLock()
	calls = mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *driftRepoMock) ListOpen(ctx context.Context, tenantID string, limit int) ([]domain.DriftRecord, error) {
	if mock.ListOpenFunc == nil {
		panic("driftRepoMock.ListOpenFunc: method is nil but driftRepo.ListOpen was just called")
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

func (mock *driftRepoMock) ListOpenCalls() []struct {
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

func (mock *driftRepoMock) ListOpenByProduct(ctx context.Context, tenantID string, productID string) (map[string]domain.DriftRecord, error) {
	if mock.ListOpenByProductFunc == nil {
		panic("driftRepoMock.ListOpenByProductFunc: method is nil but driftRepo.ListOpenByProduct was just called")
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
	mock.lockListOpenByProduct.Lock()
	mock.calls.ListOpenByProduct = append(mock.calls.ListOpenByProduct, callInfo)
	mock.lockListOpenByProduct.Unlock()
	return mock.ListOpenByProductFunc(ctx, tenantID, productID)
}

func (mock *driftRepoMock) ListOpenByProductCalls() []struct {
	Ctx       context.Context
	TenantID  string
	ProductID string
} {
	var calls []struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
	}
	mock.lockListOpenByProduct.RLock()
	calls = mock.calls.ListOpenByProduct
	mock.lockListOpenByProduct.RUnlock()
	return calls
}

func (mock *driftRepoMock) Resolve(ctx context.Context, id uuid.UUID, at time.Time) (domain.DriftRecord, error) {
	if mock.ResolveFunc == nil {
		panic("driftRepoMock.ResolveFunc: method is nil but driftRepo.Resolve was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
		At  time.Time
	}{
		Ctx: ctx,
		Id:  id,
		At:  at,
	}
	mock.lockResolve.Lock()
	mock.calls.Resolve = append(mock.calls.Resolve, callInfo)
	mock.lockResolve.Unlock()
	return mock.ResolveFunc(ctx, id, at)
}

func (mock *driftRepoMock) ResolveCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
	At  time.Time
} {
	var calls []struct {
		Ctx context.Context
		Id  uuid.UUID
		At  time.Time
	}
	mock.lockResolve.RLock()
	calls = mock.calls.Resolve
	mock.lockResolve.RUnlock()
	return calls
}

func (mock *driftRepoMock) ResolveAllForProduct(ctx context.Context, tenantID string, productID string, at time.Time) ([]domain.DriftRecord, error) {
	if mock.ResolveAllForProductFunc == nil {
		panic("driftRepoMock.ResolveAllForProductFunc: method is nil but driftRepo.ResolveAllForProduct was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		At        time.Time
	}{
		Ctx:       ctx,
		TenantID:  tenantID,
		ProductID: productID,
		At:        at,
	}
	mock.lockResolveAllForProduct.Lock()
	mock.calls.ResolveAllForProduct = append(mock.calls.ResolveAllForProduct, callInfo)
	mock.lockResolveAllForProduct.Unlock()
	return mock.ResolveAllForProductFunc(ctx, tenantID, productID, at)
}

func (mock *driftRepoMock) ResolveAllForProductCalls() []struct {
	Ctx       context.Context
	TenantID  string
	ProductID string
	At        time.Time
} {
	var calls []struct {
		Ctx       context.Context
		TenantID  string
		ProductID string
		At        time.Time
	}
	mock.lockResolveAllForProduct.RLock()
	calls = mock.calls.ResolveAllForProduct
	mock.lockResolveAllForProduct.RUnlock()
	return calls
}

func (mock *driftRepoMock) UpdateObserved(ctx context.Context, id uuid.UUID, observed string, severity domain.DriftSeverity, detectedAt time.Time) (domain.DriftRecord, error) {
	if mock.UpdateObservedFunc == nil {
		panic("driftRepoMock.UpdateObservedFunc: method is nil but driftRepo.UpdateObserved was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Id         uuid.UUID
		Observed   string
		Severity   domain.DriftSeverity
		DetectedAt time.Time
	}{
		Ctx:        ctx,
		Id:         id,
		Observed:   observed,
		Severity:   severity,
		DetectedAt: detectedAt,
	}
	mock.lockUpdateObserved.Lock()
	mock.calls.UpdateObserved = append(mock.calls.UpdateObserved, callInfo)
	mock.lockUpdateObserved.Unlock()
	return mock.UpdateObservedFunc(ctx, id, observed, severity, detectedAt)
}

func (mock *driftRepoMock) UpdateObservedCalls() []struct {
	Ctx        context.Context
	Id         uuid.UUID
	Observed   string
	Severity   domain.DriftSeverity
	DetectedAt time.Time
} {
	var calls []struct {
		Ctx        context.Context
		Id         uuid.UUID
		Observed   string
		Severity   domain.DriftSeverity
		DetectedAt time.Time
	}
	mock.lockUpdateObserved.RLock()
	calls = mock.calls.UpdateObserved
	mock.lockUpdateObserved.RUnlock()
	return calls
}
