package remediation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/service/ruleset"
)

// Remediation computes the change that makes a failing item pass.
type Remediation func(snap domain.Snapshot) (domain.ProductPatch, error)

// Registry maps rule keys to their remediation.
type Registry map[string]Remediation

// DefaultRegistry returns the remediations for the built-in checklist.
func DefaultRegistry(seoDescMin, seoDescMax int) Registry {
	return Registry{
		ruleset.KeySEOTitle:       FixSEOTitle,
		ruleset.KeySEODescription: SEODescriptionFixer(seoDescMin, seoDescMax),
		ruleset.KeyAltText:        FixAltText,
		ruleset.KeyTags:           FixTags,
	}
}

// Validate checks that every fixable rule has a remediation and that every
// remediation belongs to a fixable rule.
func (r Registry) Validate(rules interface{ Rules() []domain.RuleInfo }) error {
	var errs []error
	known := make([]string, 0, len(r))
	for _, info := range rules.Rules() {
		known = append(known, info.Key)
		_, has := r[info.Key]
		switch {
		case info.Fixable && !has:
			errs = append(errs, fmt.Errorf("fixable rule %q has no remediation", info.Key))
		case !info.Fixable && has:
			errs = append(errs, fmt.Errorf("rule %q is not fixable but has a remediation", info.Key))
		}
	}
	for key, fix := range r {
		if !slices.Contains(known, key) {
			errs = append(errs, fmt.Errorf("remediation for unknown rule %q", key))
		}
		if fix == nil {
			errs = append(errs, fmt.Errorf("remediation for %q is nil", key))
		}
	}
	return errors.Join(errs...)
}
