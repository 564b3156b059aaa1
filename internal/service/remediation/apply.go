package remediation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Result messages.
const (
	MsgNoAutoFix        = "no auto-fix available"
	MsgAlreadyCompliant = "already compliant"
	MsgFixed            = "fix applied"
)

// FixResult is the outcome of one remediation.
type FixResult struct {
	ItemKey string `json:"itemKey"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Audit is the refreshed audit when the catalog was changed.
	Audit *domain.AuditRecord `json:"audit,omitempty"`
}

// BatchResult is the outcome of ApplyAllFixes. Results keep the order in
// which items were attempted.
type BatchResult struct {
	Results   []FixResult `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Message   string      `json:"message"`
}

func (b *BatchResult) add(r FixResult) {
	b.Results = append(b.Results, r)
	if r.Success {
		b.Succeeded++
	} else {
		b.Failed++
	}
	b.Message = fmt.Sprintf("%d fixes applied, %d failed", b.Succeeded, b.Failed)
}

// ApplyFix runs the remediation for itemKey. Remediation failures are
// reported in the result; an error means the product or plan could not be
// loaded.
func (s *Service) ApplyFix(ctx context.Context, tenantID, productID, itemKey string) (FixResult, error) {
	ctx, span := tracer.Start(ctx, "remediation.ApplyFix", trace.WithAttributes(
		attribute.String("tenant_id", tenantID),
		attribute.String("product_id", productID),
		attribute.String("item_key", itemKey),
	))
	defer span.End()

	if _, ok := s.registry[itemKey]; !ok {
		return FixResult{ItemKey: itemKey, Message: MsgNoAutoFix}, nil
	}

	policy, snap, err := s.load(ctx, tenantID, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return FixResult{}, err
	}

	res, _ := s.applyOne(ctx, policy, tenantID, productID, itemKey, snap)
	span.SetAttributes(attribute.Bool("success", res.Success))
	return res, nil
}

// ApplyAllFixes attempts every failing fixable item in presentation order.
// A failing item never stops the batch. When ctx is cancelled the items
// attempted so far are returned with ctx.Err(); their changes stay applied.
func (s *Service) ApplyAllFixes(ctx context.Context, tenantID, productID string) (BatchResult, error) {
	ctx, span := tracer.Start(ctx, "remediation.ApplyAllFixes", trace.WithAttributes(
		attribute.String("tenant_id", tenantID),
		attribute.String("product_id", productID),
	))
	defer span.End()

	batch := BatchResult{Results: []FixResult{}, Message: "0 fixes applied, 0 failed"}

	policy, snap, err := s.load(ctx, tenantID, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return batch, err
	}

	var keys []string
	for _, key := range s.rules.Evaluate(snap).FailedKeys() {
		if info, ok := s.rules.Lookup(key); ok && info.Fixable {
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			s.log.InfoContext(ctx, "fix batch cancelled",
				slog.String("tenant_id", tenantID),
				slog.String("product_id", productID),
				slog.Int("attempted", len(batch.Results)),
				slog.Int("remaining", len(keys)-len(batch.Results)),
			)
			span.SetStatus(codes.Error, "cancelled")
			return batch, err
		}
		var res FixResult
		res, snap = s.applyOne(ctx, policy, tenantID, productID, key, snap)
		batch.add(res)
	}

	span.SetAttributes(
		attribute.Int("succeeded", batch.Succeeded),
		attribute.Int("failed", batch.Failed),
	)
	s.log.InfoContext(ctx, "fix batch finished",
		slog.String("tenant_id", tenantID),
		slog.String("product_id", productID),
		slog.Int("succeeded", batch.Succeeded),
		slog.Int("failed", batch.Failed),
	)
	return batch, nil
}

func (s *Service) load(ctx context.Context, tenantID, productID string) (domain.PlanPolicy, domain.Snapshot, error) {
	policy, err := s.plans.GetPlanPolicy(ctx, tenantID)
	if err != nil {
		return domain.PlanPolicy{}, domain.Snapshot{}, fmt.Errorf("get plan: %w", err)
	}
	snap, err := s.catalog.FetchSnapshot(ctx, tenantID, productID)
	if err != nil {
		return domain.PlanPolicy{}, domain.Snapshot{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	return policy, snap, nil
}

// applyOne runs one remediation against snap and returns the result with the
// snapshot later fixes should start from.
func (s *Service) applyOne(ctx context.Context, policy domain.PlanPolicy, tenantID, productID, key string, snap domain.Snapshot) (FixResult, domain.Snapshot) {
	ctx, span := tracer.Start(ctx, "remediation.fix", trace.WithAttributes(attribute.String("item_key", key)))
	defer span.End()

	fail := func(msg string, err error) (FixResult, domain.Snapshot) {
		if err != nil {
			msg = msg + ": " + err.Error()
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, msg)
		s.log.WarnContext(ctx, "fix failed",
			slog.String("tenant_id", tenantID),
			slog.String("product_id", productID),
			slog.String("item_key", key),
			slog.String("reason", msg),
		)
		return FixResult{ItemKey: key, Message: msg}, snap
	}

	fix, ok := s.registry[key]
	if !ok {
		return FixResult{ItemKey: key, Message: MsgNoAutoFix}, snap
	}
	if passed, known := s.rules.Passes(key, snap); known && passed {
		return FixResult{ItemKey: key, Success: true, Message: MsgAlreadyCompliant}, snap
	}

	patch, err := fix(snap)
	if err != nil {
		return fail("cannot compute fix", err)
	}

	mctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fields, err := s.recordVersions(mctx, policy, tenantID, productID, snap, patch, domain.VersionSourceAutoFix, nil)
	if err != nil {
		return fail("record history", err)
	}

	mres, err := s.catalog.ApplyMutation(mctx, tenantID, productID, patch)
	if err != nil {
		return fail("mutation failed", err)
	}
	if !mres.OK() && len(patch.ImageAlts) == 0 {
		return fail("platform rejected change", errors.New(mres.Errors[0].Message))
	}

	sctx, scancel := s.settleContext(ctx)
	defer scancel()

	fresh, err := s.catalog.FetchSnapshot(sctx, tenantID, productID)
	if err != nil {
		return fail("applied but audit refresh failed", err)
	}
	record, err := s.audit.Apply(sctx, tenantID, productID, fresh, key)
	if err != nil {
		return fail("applied but audit refresh failed", err)
	}
	s.refreshBaseline(sctx, policy, tenantID, productID, fresh, fields)

	res := FixResult{ItemKey: key, Success: true, Message: MsgFixed, Audit: &record}
	if len(patch.ImageAlts) > 0 {
		fixed := fixedImages(fresh, patch.ImageAlts)
		res.Success = fixed > 0
		res.Message = fmt.Sprintf("fixed %d of %d images", fixed, len(patch.ImageAlts))
	}
	span.SetAttributes(attribute.Bool("success", res.Success))
	return res, fresh
}

// recordVersions stores the pre-change value of every editable field the
// patch changes and returns the names of all fields it touches.
func (s *Service) recordVersions(ctx context.Context, policy domain.PlanPolicy, tenantID, productID string, snap domain.Snapshot, patch domain.ProductPatch, source domain.VersionSource, aiModel *string) ([]string, error) {
	var touched []string
	for _, field := range domain.EditableFields {
		next, set := patchValue(patch, field)
		if !set {
			continue
		}
		current, _ := snap.FieldValue(field)
		if current == next {
			continue
		}
		touched = append(touched, field)
		if _, err := s.versions.RecordVersion(ctx, policy, domain.VersionWrite{
			TenantID:  tenantID,
			ProductID: productID,
			Field:     field,
			Value:     current,
			Source:    source,
			AIModel:   aiModel,
		}); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
	}
	if len(patch.ImageAlts) > 0 {
		touched = append(touched, domain.FieldImageAltText)
	}
	return touched, nil
}

// refreshBaseline moves the drift baseline of fields the engine just changed
// so they are not reported as drift. Failure is logged only.
func (s *Service) refreshBaseline(ctx context.Context, policy domain.PlanPolicy, tenantID, productID string, fresh domain.Snapshot, fields []string) {
	if !policy.DriftDetectionEnabled || len(fields) == 0 {
		return
	}
	if err := s.drift.AcceptBaseline(ctx, tenantID, productID, fresh, fields...); err != nil {
		s.log.WarnContext(ctx, "baseline refresh failed",
			slog.String("tenant_id", tenantID),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

// patchValue returns the value patch writes to an editable field in the same
// form as Snapshot.FieldValue.
func patchValue(p domain.ProductPatch, field string) (string, bool) {
	var v *string
	switch field {
	case domain.FieldTitle:
		v = p.Title
	case domain.FieldDescription:
		v = p.Description
	case domain.FieldVendor:
		v = p.Vendor
	case domain.FieldProductType:
		v = p.ProductType
	case domain.FieldSEOTitle:
		v = p.SEOTitle
	case domain.FieldSEODescription:
		v = p.SEODescription
	case domain.FieldTags:
		if p.Tags == nil {
			return "", false
		}
		return domain.Snapshot{Tags: p.Tags}.FieldValue(domain.FieldTags)
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

// fixedImages counts the targeted images that now carry alt text.
func fixedImages(fresh domain.Snapshot, targets map[string]string) int {
	n := 0
	for _, img := range fresh.Images {
		if _, ok := targets[img.ID]; ok && img.AltText != "" {
			n++
		}
	}
	return n
}
