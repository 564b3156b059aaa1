package audit

import (
	"context"
	"fmt"
	"iter"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Incomplete yields the tenant's incomplete records ordered by last update,
// oldest first. Pages are fetched lazily by keyset so a product fixed while
// iterating never causes another to be skipped or repeated.
func (s *Service) Incomplete(ctx context.Context, tenantID string) iter.Seq2[domain.AuditRecord, error] {
	return func(yield func(domain.AuditRecord, error) bool) {
		var cursor *domain.IncompleteCursor
		for {
			page, err := s.records.ListIncomplete(ctx, tenantID, cursor, s.pageSize)
			if err != nil {
				yield(domain.AuditRecord{}, fmt.Errorf("list incomplete: %w", err))
				return
			}
			for _, rec := range page {
				if !yield(rec, nil) {
					return
				}
			}
			if len(page) < s.pageSize {
				return
			}
			last := page[len(page)-1]
			cursor = &domain.IncompleteCursor{UpdatedAt: last.UpdatedAt, ProductID: last.ProductID}
		}
	}
}

// NextIncomplete returns the first incomplete product other than
// currentProductID, or nil when there is none.
func (s *Service) NextIncomplete(ctx context.Context, tenantID, currentProductID string) (*domain.AuditRecord, error) {
	for rec, err := range s.Incomplete(ctx, tenantID) {
		if err != nil {
			return nil, err
		}
		if rec.ProductID != currentProductID {
			return &rec, nil
		}
	}
	return nil, nil
}
