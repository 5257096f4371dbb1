package content

import (
	"context"

	"github.com/nfrund/portfolio/internal/cache"
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/domain"
)

// Querier runs a content query. Both the hosted client and the local
// dataset satisfy it.
type Querier interface {
	Fetch(ctx context.Context, q cms.Query, out any) error
}

// Service reads companies and testimonials through the tagged cache.
type Service struct {
	source Querier
	images ImageResolver
	store  *cache.Store
}

// NewService creates the data access service. store may be nil to read
// through on every call.
func NewService(source Querier, images ImageResolver, store *cache.Store) *Service {
	return &Service{source: source, images: images, store: store}
}

// Companies returns every company in display order. Upstream errors are
// returned as is.
func (s *Service) Companies(ctx context.Context, req *cache.Request) ([]CompanyDTO, error) {
	q := cms.CompaniesQuery
	return cache.Fetch(ctx, req, s.store, q.Name, []string{cache.TagCompanies},
		func(ctx context.Context) ([]CompanyDTO, error) {
			var raw []domain.Company
			if err := s.source.Fetch(ctx, q, &raw); err != nil {
				return nil, err
			}
			return ToCompanyDTOs(raw, s.images), nil
		})
}

// Testimonials returns every testimonial in display order with its company.
// The entry is tagged with companies too since it embeds company data.
func (s *Service) Testimonials(ctx context.Context, req *cache.Request) ([]TestimonialDTO, error) {
	q := cms.TestimonialsQuery
	return cache.Fetch(ctx, req, s.store, q.Name, []string{cache.TagTestimonials, cache.TagCompanies},
		func(ctx context.Context) ([]TestimonialDTO, error) {
			var raw []domain.Testimonial
			if err := s.source.Fetch(ctx, q, &raw); err != nil {
				return nil, err
			}
			return ToTestimonialDTOs(raw, s.images), nil
		})
}
