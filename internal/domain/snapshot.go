package domain

import (
	"slices"
	"strings"
	"time"
)

// Field names shared by the version store, drift detector and remediations.
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldVendor         = "vendor"
	FieldProductType    = "product_type"
	FieldTags           = "tags"
	FieldSEOTitle       = "seo_title"
	FieldSEODescription = "seo_description"
	FieldImageURLs      = "image_urls"
	FieldImageAltText   = "image_alt_text"
)

// EditableFields are the fields that can be written back with a single value
// (edit and revert replay).
var EditableFields = []string{
	FieldTitle, FieldDescription, FieldVendor, FieldProductType,
	FieldTags, FieldSEOTitle, FieldSEODescription,
}

// IsEditableField reports whether field can be replayed from a stored version.
func IsEditableField(field string) bool {
	return slices.Contains(EditableFields, field)
}

// Snapshot is a point-in-time read of one catalog item's audited fields.
// It is produced by the catalog platform and never persisted directly.
type Snapshot struct {
	ProductID      string    `json:"productId"`
	Title          string    `json:"title"`
	Description    string    `json:"descriptionHtml"`
	Vendor         string    `json:"vendor"`
	ProductType    string    `json:"productType"`
	Tags           []string  `json:"tags"`
	SEOTitle       string    `json:"seoTitle"`
	SEODescription string    `json:"seoDescription"`
	Images         []Image   `json:"images"`
	Collections    []string  `json:"collections"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Image is a product media item.
type Image struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	AltText  string `json:"altText"`
	Position int    `json:"position"`
}

// SortedImages returns the images in position order without mutating the snapshot.
func (s Snapshot) SortedImages() []Image {
	images := slices.Clone(s.Images)
	slices.SortStableFunc(images, func(a, b Image) int { return a.Position - b.Position })
	return images
}

// FieldValue returns the editable value of field as a single string.
// Tags are joined with ", ". The second result is false for unknown fields.
func (s Snapshot) FieldValue(field string) (string, bool) {
	switch field {
	case FieldTitle:
		return s.Title, true
	case FieldDescription:
		return s.Description, true
	case FieldVendor:
		return s.Vendor, true
	case FieldProductType:
		return s.ProductType, true
	case FieldTags:
		return strings.Join(s.Tags, ", "), true
	case FieldSEOTitle:
		return s.SEOTitle, true
	case FieldSEODescription:
		return s.SEODescription, true
	}
	return "", false
}

// ProductPatch is a partial update sent to the catalog platform.
// Nil fields are left unchanged; Tags is sent as null when nil.
type ProductPatch struct {
	Title          *string           `json:"title,omitempty"`
	Description    *string           `json:"descriptionHtml,omitempty"`
	Vendor         *string           `json:"vendor,omitempty"`
	ProductType    *string           `json:"productType,omitempty"`
	Tags           []string          `json:"tags"`
	SEOTitle       *string           `json:"seoTitle,omitempty"`
	SEODescription *string           `json:"seoDescription,omitempty"`
	ImageAlts      map[string]string `json:"imageAlts,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Vendor == nil && p.ProductType == nil &&
		p.Tags == nil && p.SEOTitle == nil && p.SEODescription == nil && len(p.ImageAlts) == 0
}

// PatchForField builds a patch that sets a single editable field.
func PatchForField(field, value string) (ProductPatch, error) {
	var p ProductPatch
	switch field {
	case FieldTitle:
		p.Title = &value
	case FieldDescription:
		p.Description = &value
	case FieldVendor:
		p.Vendor = &value
	case FieldProductType:
		p.ProductType = &value
	case FieldSEOTitle:
		p.SEOTitle = &value
	case FieldSEODescription:
		p.SEODescription = &value
	case FieldTags:
		p.Tags = SplitTags(value)
	default:
		return ProductPatch{}, NewValidationError("field", "not editable")
	}
	return p, nil
}

// SplitTags splits a comma-separated tag list, dropping blanks.
// An empty input yields an empty non-nil slice so the patch clears tags.
func SplitTags(value string) []string {
	tags := []string{}
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// MutationError is a per-field error reported by the catalog platform.
type MutationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MutationResult is the outcome of applying a ProductPatch.
type MutationResult struct {
	Errors []MutationError `json:"errors"`
}

// OK reports whether the mutation applied without errors.
func (r MutationResult) OK() bool { return len(r.Errors) == 0 }

// FailedField reports whether any error mentions field.
func (r MutationResult) FailedField(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}
