package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

var _ reportService = &reportServiceMock{}

type reportServiceMock struct {
	ExportReportFunc     func(ctx context.Context, tenantID string, id uuid.UUID) ([]byte, error)
	GenerateReportFunc   func(ctx context.Context, tenantID string, period domain.Period) (domain.CatalogReport, error)
	GetLatestReportFunc  func(ctx context.Context, tenantID string) (domain.CatalogReport, error)
	GetReportFunc        func(ctx context.Context, tenantID string, id uuid.UUID) (domain.CatalogReport, error)
	GetReportHistoryFunc func(ctx context.Context, tenantID string, limit int) ([]domain.CatalogReport, error)

	calls struct {
		ExportReport []struct {
			Ctx      context.Context
			TenantID string
			Id       uuid.UUID
		}
		GenerateReport []struct {
			Ctx      context.Context
			TenantID string
			Period   domain.Period
		}
		GetLatestReport []struct {
			Ctx      context.Context
			TenantID string
		}
		GetReport []struct {
			Ctx      context.Context
			TenantID string
			Id       uuid.UUID
		}
		GetReportHistory []struct {
			Ctx      context.Context
			TenantID string
			Limit    int
		}
	}
	lockExportReport     sync.RWMutex
	lockGenerateReport   sync.RWMutex
	lockGetLatestReport  sync.RWMutex
	lockGetReport        sync.RWMutex
	lockGetReportHistory sync.RWMutex
}

func (mock *reportServiceMock) ExportReport(ctx context.Context, tenantID string, id uuid.UUID) ([]byte, error) {
	if mock.ExportReportFunc == nil {
		panic("reportServiceMock.ExportReportFunc: method is nil but reportService.ExportReport was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		Id       uuid.UUID
	}{
		Ctx:      ctx,
		TenantID: tenantID,
		Id:       id,
	}
	mock.lockExportReport.Lock()
	mock.calls.ExportReport = append(mock.calls.ExportReport, callInfo)
	mock.lockExportReport.Unlock()
	return mock.ExportReportFunc(ctx, tenantID, id)
}

func (mock *reportServiceMock) ExportReportCalls() []struct {
	Ctx      context.Context
	TenantID string
	Id       uuid.UUID
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
		Id       uuid.UUID
	}
	mock.lockExportReport.RLock()
	calls = mock.calls.ExportReport
	mock.lockExportReport.RUnlock()
	return calls
}

func (mock *reportServiceMock) GenerateReport(ctx context.Context, tenantID string, period domain.Period) (domain.CatalogReport, error) {
	if mock.GenerateReportFunc == nil {
		panic("reportServiceMock.GenerateReportFunc: method is nil but reportService.GenerateReport was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		Period   domain.Period
	}{
		Ctx:      ctx,
		TenantID: tenantID,
		Period:   period,
	}
	mock.lockGenerateReport.Lock()
	mock.calls.GenerateReport = append(mock.calls.GenerateReport, callInfo)
	mock.lockGenerateReport.Unlock()
	return mock.GenerateReportFunc(ctx, tenantID, period)
}

func (mock *reportServiceMock) GenerateReportCalls() []struct {
	Ctx      context.Context
	TenantID string
	Period   domain.Period
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
		Period   domain.Period
	}
	mock.lockGenerateReport.RLock()
	calls = mock.calls.GenerateReport
	mock.lockGenerateReport.RUnlock()
	return calls
}

func (mock *reportServiceMock) GetLatestReport(ctx context.Context, tenantID string) (domain.CatalogReport, error) {
	if mock.GetLatestReportFunc == nil {
		panic("reportServiceMock.GetLatestReportFunc: method is nil but reportService.GetLatestReport was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
	}{
		Ctx:      ctx,
		TenantID: tenantID,
	}
	mock.lockGetLatestReport.Lock()
	mock.calls.GetLatestReport = append(mock.calls.GetLatestReport, callInfo)
	mock.lockGetLatestReport.Unlock()
	return mock.GetLatestReportFunc(ctx, tenantID)
}

func (mock *reportServiceMock) GetLatestReportCalls() []struct {
	Ctx      context.Context
	TenantID string
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
	}
	mock.lockGetLatestReport.RLock()
	calls = mock.calls.GetLatestReport
	mock.lockGetLatestReport.RUnlock()
	return calls
}

func (mock *reportServiceMock) GetReport(ctx context.Context, tenantID string, id uuid.UUID) (domain.CatalogReport, error) {
	if mock.GetReportFunc == nil {
		panic("reportServiceMock.GetReportFunc: method is nil but reportService.GetReport was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		Id       uuid.UUID
	}{
		Ctx:      ctx,
		TenantID: tenantID,
		Id:       id,
	}
	mock.lockGetReport.Lock()
	mock.calls.GetReport = append(mock.calls.GetReport, callInfo)
	mock.lockGetReport.Unlock()
	return mock.GetReportFunc(ctx, tenantID, id)
}

func (mock *reportServiceMock) GetReportCalls() []struct {
	Ctx      context.Context
	TenantID string
	Id       uuid.UUID
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
		Id       uuid.UUID
	}
	mock.lockGetReport.RLock()
	calls = mock.calls.GetReport
	mock.lockGetReport.RUnlock()
	return calls
}

func (mock *reportServiceMock) GetReportHistory(ctx context.Context, tenantID string, limit int) ([]domain.CatalogReport, error) {
	if mock.GetReportHistoryFunc == nil {
		panic("reportServiceMock.GetReportHistoryFunc: method is nil but reportService.GetReportHistory was just called")
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
	mock.lockGetReportHistory.Lock()
	mock.calls.GetReportHistory = append(mock.calls.GetReportHistory, callInfo)
	mock.lockGetReportHistory.Unlock()
	return mock.GetReportHistoryFunc(ctx, tenantID, limit)
}

func (mock *reportServiceMock) GetReportHistoryCalls() []struct {
	Ctx      context.Context
	TenantID string
	Limit    int
} {
	var calls []struct {
		Ctx      context.Context
		TenantID string
		Limit    int
	}
	mock.lockGetReportHistory.RLock()
	calls = mock.calls.GetReportHistory
	mock.lockGetReportHistory.RUnlock()
	return calls
}
