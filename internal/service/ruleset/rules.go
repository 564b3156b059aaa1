// Package ruleset defines the catalog checklist and evaluates it against a
// product snapshot. Evaluation is pure: no I/O, no clock, no shared state.
package ruleset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Rule keys.
const (
	KeyTitle          = "title"
	KeyDescription    = "description"
	KeyImages         = "images"
	KeyAltText        = "alt_text"
	KeySEOTitle       = "seo_title"
	KeySEODescription = "seo_description"
	KeyProductType    = "product_type"
	KeyVendor         = "vendor"
	KeyTags           = "tags"
	KeyCollections    = "collections"
)

// Thresholds.
const (
	MinTitleLength          = 10
	MaxTitleLength          = 255
	MinDescriptionLength    = 50
	MaxSEOTitleLength       = 70
	MinSEODescriptionLength = 50
	MaxSEODescriptionLength = 160
	MinImages               = 1
	MinTags                 = 1
	MinCollections          = 1
)

// CheckFunc inspects a snapshot. details explains a failure and is ignored
// when passed is true.
type CheckFunc func(s domain.Snapshot) (passed bool, details string)

// Rule is a single named pass/fail check.
type Rule struct {
	domain.RuleInfo
	Check CheckFunc
}

// priority is the presentation order of items in an audit record.
// It is independent of evaluation order and must stay stable across releases.
var priority = map[string]int{
	KeyTitle:          1,
	KeyDescription:    2,
	KeyImages:         3,
	KeyAltText:        4,
	KeySEOTitle:       5,
	KeySEODescription: 6,
	KeyProductType:    7,
	KeyVendor:         8,
	KeyTags:           9,
	KeyCollections:    10,
}

// defaultRules are listed in evaluation order: cheap field checks first.
func defaultRules() []Rule {
	return []Rule{
		{
			RuleInfo: domain.RuleInfo{Key: KeyProductType, Label: "Product type is set", Category: domain.RuleCategoryOrganization},
			Check: func(s domain.Snapshot) (bool, string) {
				return nonBlank(s.ProductType, "product type is empty")
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeyVendor, Label: "Vendor is set", Category: domain.RuleCategoryOrganization},
			Check: func(s domain.Snapshot) (bool, string) {
				return nonBlank(s.Vendor, "vendor is empty")
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeyTags, Label: "Product has tags", Fixable: true, Category: domain.RuleCategoryOrganization},
			Check: func(s domain.Snapshot) (bool, string) {
				n := 0
				for _, t := range s.Tags {
					if strings.TrimSpace(t) != "" {
						n++
					}
				}
				if n < MinTags {
					return false, fmt.Sprintf("%d tags, minimum is %d", n, MinTags)
				}
				return true, ""
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeyCollections, Label: "Product is in a collection", Category: domain.RuleCategoryOrganization},
			Check: func(s domain.Snapshot) (bool, string) {
				if len(s.Collections) < MinCollections {
					return false, "not in any collection"
				}
				return true, ""
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeyTitle, Label: "Title is descriptive", Category: domain.RuleCategoryContent},
			Check: func(s domain.Snapshot) (bool, string) {
				n := runeLen(s.Title)
				switch {
				case n < MinTitleLength:
					return false, fmt.Sprintf("title has %d characters, minimum is %d", n, MinTitleLength)
				case n > MaxTitleLength:
					return false, fmt.Sprintf("title has %d characters, maximum is %d", n, MaxTitleLength)
				}
				return true, ""
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeySEOTitle, Label: "SEO title is set", Fixable: true, Category: domain.RuleCategorySEO},
			Check: func(s domain.Snapshot) (bool, string) {
				n := runeLen(s.SEOTitle)
				switch {
				case n == 0:
					return false, "SEO title is empty"
				case n > MaxSEOTitleLength:
					return false, fmt.Sprintf("SEO title has %d characters, maximum is %d", n, MaxSEOTitleLength)
				}
				return true, ""
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeySEODescription, Label: "SEO description is set", Fixable: true, Category: domain.RuleCategorySEO},
			Check: func(s domain.Snapshot) (bool, string) {
				n := runeLen(s.SEODescription)
				switch {
				case n == 0:
					return false, "SEO description is empty"
				case n < MinSEODescriptionLength:
					return false, fmt.Sprintf("SEO description has %d characters, minimum is %d", n, MinSEODescriptionLength)
				case n > MaxSEODescriptionLength:
					return false, fmt.Sprintf("SEO description has %d characters, maximum is %d", n, MaxSEODescriptionLength)
				}
				return true, ""
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeyImages, Label: "Product has images", Category: domain.RuleCategoryMedia},
			Check: func(s domain.Snapshot) (bool, string) {
				if len(s.Images) < MinImages {
					return false, fmt.Sprintf("%d images, minimum is %d", len(s.Images), MinImages)
				}
				return true, ""
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeyAltText, Label: "All images have alt text", Fixable: true, Category: domain.RuleCategoryMedia},
			Check: func(s domain.Snapshot) (bool, string) {
				if len(s.Images) == 0 {
					return false, "no images to describe"
				}
				missing := 0
				for _, img := range s.Images {
					if strings.TrimSpace(img.AltText) == "" {
						missing++
					}
				}
				if missing > 0 {
					return false, fmt.Sprintf("%d of %d images missing alt text", missing, len(s.Images))
				}
				return true, ""
			},
		},
		{
			RuleInfo: domain.RuleInfo{Key: KeyDescription, Label: "Description is detailed", Category: domain.RuleCategoryContent},
			Check: func(s domain.Snapshot) (bool, string) {
				n := runeLen(domain.PlainText(s.Description))
				if n < MinDescriptionLength {
					return false, fmt.Sprintf("description has %d characters, minimum is %d", n, MinDescriptionLength)
				}
				return true, ""
			},
		},
	}
}

func nonBlank(v, details string) (bool, string) {
	if strings.TrimSpace(v) == "" {
		return false, details
	}
	return true, ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
