// Package content is the data access layer: it runs the content queries,
// caches their results and maps raw documents to render-ready DTOs.
package content

import "github.com/nfrund/portfolio/internal/domain"

// CompanyDTO is a company ready for rendering. Logo is "" when the company
// has no resolvable logo.
type CompanyDTO struct {
	Name        string `json:"name"`
	Logo        string `json:"logo"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// TestimonialDTO is a testimonial ready for rendering. AuthorAvatar is ""
// when there is no avatar.
type TestimonialDTO struct {
	Quote        string     `json:"quote"`
	AuthorName   string     `json:"authorName"`
	AuthorRole   string     `json:"authorRole"`
	AuthorAvatar string     `json:"authorAvatar"`
	Company      CompanyDTO `json:"company"`
}

// ImageResolver turns an image value into an absolute URL, or "".
type ImageResolver interface {
	URL(img *domain.Image) string
}

// ToCompanyDTO maps a raw company.
func ToCompanyDTO(c domain.Company, images ImageResolver) CompanyDTO {
	return CompanyDTO{
		Name:        c.Name,
		Logo:        images.URL(c.Logo),
		Website:     c.Website,
		Description: c.Description,
	}
}

// ToTestimonialDTO maps a raw testimonial and flattens its company.
func ToTestimonialDTO(t domain.Testimonial, images ImageResolver) TestimonialDTO {
	return TestimonialDTO{
		Quote:        t.Quote,
		AuthorName:   t.AuthorName,
		AuthorRole:   t.AuthorRole,
		AuthorAvatar: images.URL(t.AuthorAvatar),
		Company: CompanyDTO{
			Name: t.Company.Name,
			Logo: images.URL(t.Company.Logo),
		},
	}
}

// ToCompanyDTOs maps companies in input order.
func ToCompanyDTOs(companies []domain.Company, images ImageResolver) []CompanyDTO {
	out := make([]CompanyDTO, 0, len(companies))
	for _, c := range companies {
		out = append(out, ToCompanyDTO(c, images))
	}
	return out
}

// ToTestimonialDTOs maps testimonials in input order.
func ToTestimonialDTOs(testimonials []domain.Testimonial, images ImageResolver) []TestimonialDTO {
	out := make([]TestimonialDTO, 0, len(testimonials))
	for _, t := range testimonials {
		out = append(out, ToTestimonialDTO(t, images))
	}
	return out
}
