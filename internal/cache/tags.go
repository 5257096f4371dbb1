package cache

import "github.com/nfrund/portfolio/internal/domain"

// Cache tags, one per record kind.
const (
	TagTestimonials = "testimonials"
	TagCompanies    = "companies"
)

var documentTypeTags = map[domain.Kind][]string{
	domain.KindTestimonial: {TagTestimonials},
	domain.KindCompany:     {TagCompanies},
}

// TagsFor returns the cache tags covering documents of kind, or nil when
// the kind has no tags configured.
func TagsFor(kind domain.Kind) []string {
	tags, ok := documentTypeTags[kind]
	if !ok {
		return nil
	}
	return append([]string(nil), tags...)
}

// AllTags returns every configured tag.
func AllTags() []string {
	var tags []string
	for _, kind := range domain.Kinds() {
		tags = append(tags, documentTypeTags[kind]...)
	}
	return tags
}
