package remediation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
	"github.com/heartmarshall/catalog-compliance/internal/service/ruleset"
)

var errNoTitle = errors.New("product has no title")

// seoDescriptionFillers pad a short generated description, in order.
var seoDescriptionFillers = []string{
	"Discover materials, sizing and care details on the product page.",
	"Order online today with fast shipping and easy returns.",
}

// FixSEOTitle derives the SEO title from the product title, cut at a word
// boundary to fit the search result limit.
func FixSEOTitle(snap domain.Snapshot) (domain.ProductPatch, error) {
	title := collapseSpace(snap.Title)
	if title == "" {
		return domain.ProductPatch{}, errNoTitle
	}
	seo := truncateWords(title, ruleset.MaxSEOTitleLength)
	return domain.ProductPatch{SEOTitle: &seo}, nil
}

// SEODescriptionFixer returns a remediation that writes an SEO description
// of minLen to maxLen characters built from title, vendor, type and tags,
// padded with the product description when too short.
func SEODescriptionFixer(minLen, maxLen int) Remediation {
	return func(snap domain.Snapshot) (domain.ProductPatch, error) {
		title := collapseSpace(snap.Title)
		if title == "" {
			return domain.ProductPatch{}, errNoTitle
		}

		var b strings.Builder
		b.WriteString(title)
		if vendor := collapseSpace(snap.Vendor); vendor != "" {
			b.WriteString(" by ")
			b.WriteString(vendor)
		}
		b.WriteString(".")
		if pt := collapseSpace(snap.ProductType); pt != "" {
			b.WriteString(" Shop our ")
			b.WriteString(strings.ToLower(pt))
			b.WriteString(" range.")
		}
		if tags := cleanTags(snap.Tags); len(tags) > 0 {
			b.WriteString(" Tagged ")
			b.WriteString(strings.Join(tags[:min(3, len(tags))], ", "))
			b.WriteString(".")
		}
		desc := b.String()

		if utf8.RuneCountInString(desc) < minLen {
			for _, word := range strings.Fields(domain.PlainText(snap.Description)) {
				if utf8.RuneCountInString(desc) >= minLen {
					break
				}
				desc += " " + word
			}
		}
		for _, filler := range seoDescriptionFillers {
			if utf8.RuneCountInString(desc) >= minLen {
				break
			}
			desc += " " + filler
		}

		desc = truncateWords(desc, maxLen)
		return domain.ProductPatch{SEODescription: &desc}, nil
	}
}

// FixAltText writes "<title> - image N" for every image without alt text,
// numbering images by position.
func FixAltText(snap domain.Snapshot) (domain.ProductPatch, error) {
	if len(snap.Images) == 0 {
		return domain.ProductPatch{}, errors.New("product has no images")
	}
	name := collapseSpace(snap.Title)
	if name == "" {
		name = collapseSpace(snap.ProductType)
	}
	if name == "" {
		return domain.ProductPatch{}, errNoTitle
	}

	alts := map[string]string{}
	for i, img := range snap.SortedImages() {
		if strings.TrimSpace(img.AltText) != "" {
			continue
		}
		alts[img.ID] = fmt.Sprintf("%s - image %d", name, i+1)
	}
	if len(alts) == 0 {
		return domain.ProductPatch{}, errors.New("every image already has alt text")
	}
	return domain.ProductPatch{ImageAlts: alts}, nil
}

// FixTags derives tags from the product type and vendor.
func FixTags(snap domain.Snapshot) (domain.ProductPatch, error) {
	var tags []string
	for _, v := range []string{snap.ProductType, snap.Vendor} {
		t := strings.ToLower(collapseSpace(v))
		if t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return domain.ProductPatch{}, errors.New("no product type or vendor to derive tags from")
	}
	return domain.ProductPatch{Tags: tags}, nil
}

// truncateWords cuts s to at most limit runes, preferring the last word
// boundary, and trims trailing separators.
func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := runes[:limit]
	if !unicode.IsSpace(runes[limit]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '-' || r == '|' || r == ':'
	})
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
