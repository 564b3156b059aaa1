package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/catalog-compliance/internal/auth"
	"github.com/heartmarshall/catalog-compliance/internal/transport/middleware"
)

const (
	testTenant        = "shop.example.com"
	testSessionSecret = "test-secret-at-least-32-chars-long!!"
	testWebhookSecret = "webhook-secret"
)

type apiFixture struct {
	audits    *auditServiceMock
	fixes     *remediationServiceMock
	history   *historyServiceMock
	drift     *driftServiceMock
	lister    *driftListerMock
	reports   *reportServiceMock
	publisher *eventPublisherMock
	syncer    *productSyncerMock
	plans     *planCacheMock

	reportHandler  *ReportHandler
	webhookHandler *WebhookHandler
	sessions       *auth.SessionManager
	signer         *auth.WebhookVerifier
	handler        http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &apiFixture{
		audits:    &auditServiceMock{},
		fixes:     &remediationServiceMock{},
		history:   &historyServiceMock{},
		drift:     &driftServiceMock{},
		lister:    &driftListerMock{},
		reports:   &reportServiceMock{},
		publisher: &eventPublisherMock{},
		syncer:    &productSyncerMock{},
		plans:     &planCacheMock{},
		sessions:  auth.NewSessionManager(testSessionSecret, "catalog-compliance", time.Minute),
		signer:    auth.NewWebhookVerifier(testWebhookSecret),
	}
	f.reportHandler = NewReportHandler(f.reports, logger)
	f.webhookHandler = NewWebhookHandler(f.signer, f.publisher, f.syncer, f.plans, logger)

	f.handler = NewRouter(Handlers{
		Health:      NewHealthHandler(&dbPingerMock{}, "test-version"),
		Audit:       NewAuditHandler(f.audits, logger),
		Remediation: NewRemediationHandler(f.fixes, f.history, logger),
		Drift:       NewDriftHandler(f.drift, f.lister, logger),
		Report:      f.reportHandler,
		Webhook:     f.webhookHandler,
	}, middleware.TenantAuth(f.sessions), middleware.Chain())
	return f
}

// do sends an authenticated request for testTenant. body may be nil.
func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)

	token, err := f.sessions.Issue(testTenant)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}
