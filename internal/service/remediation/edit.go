package remediation

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// FieldEdit is a single-field write from an edit, an AI suggestion or a
// revert.
type FieldEdit struct {
	Field   string
	Value   string
	Source  domain.VersionSource
	AIModel *string
}

// Validate checks the edit before the catalog is touched.
func (e FieldEdit) Validate() error {
	var errs []domain.FieldError
	if !domain.IsEditableField(e.Field) {
		errs = append(errs, domain.FieldError{Field: "field", Message: "not editable"})
	}
	if !e.Source.IsValid() {
		errs = append(errs, domain.FieldError{Field: "source", Message: "invalid value"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// EditResult is the outcome of ApplyFieldValue.
type EditResult struct {
	// Changed is false when the field already held the value.
	Changed bool                 `json:"changed"`
	Version *domain.FieldVersion `json:"version,omitempty"`
	Audit   *domain.AuditRecord  `json:"audit,omitempty"`
}

// ApplyFieldValue writes one field to the catalog. The replaced value is
// recorded in history first; afterwards the audit is refreshed and the
// field's drift baseline moved. AI-sourced edits need remaining AI quota.
func (s *Service) ApplyFieldValue(ctx context.Context, tenantID, productID string, edit FieldEdit) (EditResult, error) {
	ctx, span := tracer.Start(ctx, "remediation.ApplyFieldValue", trace.WithAttributes(
		attribute.String("tenant_id", tenantID),
		attribute.String("product_id", productID),
		attribute.String("field", edit.Field),
		attribute.String("source", edit.Source.String()),
	))
	defer span.End()

	if err := edit.Validate(); err != nil {
		return EditResult{}, err
	}
	policy, err := s.plans.GetPlanPolicy(ctx, tenantID)
	if err != nil {
		return EditResult{}, fmt.Errorf("get plan: %w", err)
	}
	return s.applyFieldValue(ctx, policy, tenantID, productID, edit)
}

// RevertField replays a stored version of a field as a manual edit.
// Tenants without version history get a plan_required entitlement error.
func (s *Service) RevertField(ctx context.Context, tenantID, productID, field string, version int) (EditResult, error) {
	ctx, span := tracer.Start(ctx, "remediation.RevertField", trace.WithAttributes(
		attribute.String("tenant_id", tenantID),
		attribute.String("product_id", productID),
		attribute.String("field", field),
		attribute.Int("version", version),
	))
	defer span.End()

	if !domain.IsEditableField(field) {
		return EditResult{}, domain.NewValidationError("field", "not editable")
	}
	policy, err := s.plans.GetPlanPolicy(ctx, tenantID)
	if err != nil {
		return EditResult{}, fmt.Errorf("get plan: %w", err)
	}
	if !policy.VersionHistoryEnabled {
		return EditResult{}, domain.NewPlanRequiredError(domain.FeatureVersionHistory)
	}

	value, err := s.versions.Revert(ctx, tenantID, productID, field, version)
	if err != nil {
		return EditResult{}, fmt.Errorf("revert: %w", err)
	}
	return s.applyFieldValue(ctx, policy, tenantID, productID, FieldEdit{
		Field:  field,
		Value:  value,
		Source: domain.VersionSourceManualEdit,
	})
}

func (s *Service) applyFieldValue(ctx context.Context, policy domain.PlanPolicy, tenantID, productID string, edit FieldEdit) (EditResult, error) {
	if edit.Source.IsAI() && policy.AIQuotaRemaining <= 0 {
		return EditResult{}, domain.NewQuotaExhaustedError(domain.FeatureAIContent)
	}

	patch, err := domain.PatchForField(edit.Field, edit.Value)
	if err != nil {
		return EditResult{}, err
	}

	snap, err := s.catalog.FetchSnapshot(ctx, tenantID, productID)
	if err != nil {
		return EditResult{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	current, _ := snap.FieldValue(edit.Field)
	if next, _ := patchValue(patch, edit.Field); next == current {
		return EditResult{}, nil
	}

	version, err := s.versions.RecordVersion(ctx, policy, domain.VersionWrite{
		TenantID:  tenantID,
		ProductID: productID,
		Field:     edit.Field,
		Value:     current,
		Source:    edit.Source,
		AIModel:   edit.AIModel,
	})
	if err != nil {
		return EditResult{}, fmt.Errorf("record version: %w", err)
	}

	mctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	mres, err := s.catalog.ApplyMutation(mctx, tenantID, productID, patch)
	if err != nil {
		return EditResult{}, fmt.Errorf("apply mutation: %w", err)
	}
	if !mres.OK() {
		errs := make([]domain.FieldError, len(mres.Errors))
		for i, e := range mres.Errors {
			errs[i] = domain.FieldError{Field: e.Field, Message: e.Message}
		}
		return EditResult{}, domain.NewValidationErrors(errs)
	}

	sctx, scancel := s.settleContext(ctx)
	defer scancel()

	fresh, err := s.catalog.FetchSnapshot(sctx, tenantID, productID)
	if err != nil {
		return EditResult{}, fmt.Errorf("refetch snapshot: %w", err)
	}
	record, err := s.audit.Apply(sctx, tenantID, productID, fresh)
	if err != nil {
		return EditResult{}, fmt.Errorf("apply audit: %w", err)
	}
	s.refreshBaseline(sctx, policy, tenantID, productID, fresh, []string{edit.Field})

	s.log.InfoContext(ctx, "field updated",
		slog.String("tenant_id", tenantID),
		slog.String("product_id", productID),
		slog.String("field", edit.Field),
		slog.String("source", edit.Source.String()),
	)
	return EditResult{Changed: true, Version: version, Audit: &record}, nil
}
