package ruleset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// detailsEvaluationError is reported when a rule panics.
const detailsEvaluationError = "evaluation error"

// Set is an immutable, validated collection of rules.
type Set struct {
	rules []Rule
	byKey map[string]Rule
	order map[string]int
}

var defaultSet = mustNew(defaultRules(), priority)

// Default returns the built-in checklist.
func Default() *Set { return defaultSet }

// New validates rules and builds a Set. order maps rule keys to their
// presentation position; keys missing from order sort last.
func New(rules []Rule, order map[string]int) (*Set, error) {
	byKey := make(map[string]Rule, len(rules))
	for _, r := range rules {
		if r.Key == "" {
			return nil, fmt.Errorf("ruleset: rule with empty key")
		}
		if r.Check == nil {
			return nil, fmt.Errorf("ruleset: rule %q has no check", r.Key)
		}
		if _, dup := byKey[r.Key]; dup {
			return nil, fmt.Errorf("ruleset: duplicate rule key %q", r.Key)
		}
		byKey[r.Key] = r
	}
	return &Set{rules: slices.Clone(rules), byKey: byKey, order: order}, nil
}

func mustNew(rules []Rule, order map[string]int) *Set {
	s, err := New(rules, order)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of rules; every audit record has this TotalCount.
func (s *Set) Len() int { return len(s.rules) }

// Lookup returns the metadata of the rule with key.
func (s *Set) Lookup(key string) (domain.RuleInfo, bool) {
	r, ok := s.byKey[key]
	return r.RuleInfo, ok
}

// Rules returns rule metadata in presentation order.
func (s *Set) Rules() []domain.RuleInfo {
	infos := make([]domain.RuleInfo, len(s.rules))
	for i, r := range s.rules {
		infos[i] = r.RuleInfo
	}
	slices.SortFunc(infos, func(a, b domain.RuleInfo) int { return s.compareKeys(a.Key, b.Key) })
	return infos
}

// FixableKeys returns the keys of fixable rules in presentation order.
func (s *Set) FixableKeys() []string {
	var keys []string
	for _, info := range s.Rules() {
		if info.Fixable {
			keys = append(keys, info.Key)
		}
	}
	return keys
}

// Evaluate runs every rule against snap and returns the resulting record.
// TenantID and UpdatedAt are left for the caller to fill.
// A rule that panics is reported as failed rather than aborting the audit.
func (s *Set) Evaluate(snap domain.Snapshot) domain.AuditRecord {
	items := make([]domain.AuditItemResult, 0, len(s.rules))
	for _, r := range s.rules {
		items = append(items, runRule(r, snap))
	}
	slices.SortStableFunc(items, func(a, b domain.AuditItemResult) int { return s.compareKeys(a.Key, b.Key) })

	record := domain.AuditRecord{
		ProductID:       snap.ProductID,
		Items:           items,
		SourceUpdatedAt: snap.UpdatedAt,
	}
	record.Recount()
	return record
}

func runRule(r Rule, snap domain.Snapshot) (result domain.AuditItemResult) {
	result = domain.AuditItemResult{Key: r.Key, Label: r.Label}
	defer func() {
		if rec := recover(); rec != nil {
			details := detailsEvaluationError
			result.Status = domain.ItemStatusFailed
			result.Details = &details
		}
	}()

	passed, details := r.Check(snap)
	if passed {
		result.Status = domain.ItemStatusPassed
		return result
	}
	result.Status = domain.ItemStatusFailed
	if details != "" {
		result.Details = &details
	}
	return result
}

// compareKeys orders by the priority table; unknown keys go last, by key.
func (s *Set) compareKeys(a, b string) int {
	ia, okA := s.order[a]
	ib, okB := s.order[b]
	switch {
	case okA && okB:
		if ia != ib {
			return ia - ib
		}
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// Passes runs the single rule with key against snap. ok is false for unknown keys.
func (s *Set) Passes(key string, snap domain.Snapshot) (passed, ok bool) {
	r, ok := s.byKey[key]
	if !ok {
		return false, false
	}
	return runRule(r, snap).Status.IsPassing(), true
}
