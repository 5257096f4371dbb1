package content

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/nfrund/portfolio/internal/cache"
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var images = cms.NewImageURLBuilder("proj", "production")

func logo(ref string) *domain.Image {
	return &domain.Image{Type: "image", Asset: &domain.AssetRef{Ref: ref}}
}

func TestToCompanyDTO(t *testing.T) {
	t.Run("resolves logo and passes optional fields through", func(t *testing.T) {
		dto := ToCompanyDTO(domain.Company{
			ID:          "c1",
			Name:        "Acme",
			Logo:        logo("image-abc-10x20-svg"),
			Website:     "https://acme.example",
			Description: "Rockets",
		}, images)

		assert.Equal(t, CompanyDTO{
			Name:        "Acme",
			Logo:        "https://cdn.sanity.io/images/proj/production/abc-10x20.svg",
			Website:     "https://acme.example",
			Description: "Rockets",
		}, dto)
	})

	t.Run("absent logo becomes empty string", func(t *testing.T) {
		dto := ToCompanyDTO(domain.Company{Name: "Acme"}, images)
		assert.Equal(t, "", dto.Logo)
		assert.Empty(t, dto.Website)
	})
}

func TestToTestimonialDTO_AbsentImages(t *testing.T) {
	dto := ToTestimonialDTO(domain.Testimonial{
		Quote:      "Great",
		AuthorName: "A",
		AuthorRole: "B",
		Company:    domain.Company{Name: "Acme"},
	}, images)

	assert.Equal(t, "", dto.AuthorAvatar)
	assert.Equal(t, "", dto.Company.Logo)
	assert.Equal(t, "Acme", dto.Company.Name)
}

func TestMappingPreservesOrder(t *testing.T) {
	raw := []domain.Company{{Name: "Zeta", Order: 0}, {Name: "Alpha", Order: 5}, {Name: "Mid", Order: 1}}

	dtos := ToCompanyDTOs(raw, images)
	require.Len(t, dtos, 3)
	assert.Equal(t, "Zeta", dtos[0].Name)
	assert.Equal(t, "Alpha", dtos[1].Name)
	assert.Equal(t, "Mid", dtos[2].Name)

	assert.NotNil(t, ToTestimonialDTOs(nil, images), "empty input maps to an empty slice")
}

type fakeQuerier struct {
	calls atomic.Int32
	err   error
}

func (f *fakeQuerier) Fetch(_ context.Context, q cms.Query, out any) error {
	f.calls.Add(1)
	if f.err != nil {
		return f.err
	}
	switch dst := out.(type) {
	case *[]domain.Company:
		*dst = []domain.Company{{ID: "c1", Name: "Acme", Logo: logo("image-abc-10x20-svg")}}
	case *[]domain.Testimonial:
		*dst = []domain.Testimonial{{
			Quote: "Great", AuthorName: "A", AuthorRole: "B",
			Company: domain.Company{Name: "Acme", Logo: logo("image-abc-10x20-svg")},
		}}
	}
	return nil
}

func TestService_RequestMemo(t *testing.T) {
	src := &fakeQuerier{}
	svc := NewService(src, images, nil)
	req := cache.NewRequest()
	ctx := context.Background()

	first, err := svc.Companies(ctx, req)
	require.NoError(t, err)
	second, err := svc.Companies(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())

	_, err = svc.Companies(ctx, cache.NewRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load(), "a new render pass fetches again without a store")
}

func TestService_StoreAndInvalidation(t *testing.T) {
	src := &fakeQuerier{}
	store := cache.NewStore(cache.Days)
	svc := NewService(src, images, store)
	ctx := context.Background()

	testimonials, err := svc.Testimonials(ctx, nil)
	require.NoError(t, err)
	require.Len(t, testimonials, 1)
	assert.Equal(t, "https://cdn.sanity.io/images/proj/production/abc-10x20.svg", testimonials[0].Company.Logo)

	_, err = svc.Testimonials(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())

	assert.Equal(t, 1, store.Invalidate(cache.TagCompanies), "testimonials embed company data")
}

func TestService_PropagatesUpstreamError(t *testing.T) {
	boom := errors.New("lake unreachable")
	svc := NewService(&fakeQuerier{err: boom}, images, cache.NewStore(cache.Days))

	_, err := svc.Companies(context.Background(), cache.NewRequest())
	assert.Same(t, boom, err)
}

func TestLoadProfile(t *testing.T) {
	fsys := fstest.MapFS{
		"profile.yaml": {Data: []byte(`
name: Jane Doe
title: Designer
about:
  - - text: "Hi, I'm "
    - text: Jane
      highlight: true
works:
  products:
    - image: /a.svg
      alt: A
`)},
		"broken.yaml":   {Data: []byte("title: [")},
		"nameless.yaml": {Data: []byte("title: x")},
	}

	p, err := LoadProfile(fsys, "profile.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.Name)
	require.Len(t, p.About, 1)
	assert.True(t, p.About[0][1].Highlight)
	assert.Equal(t, 296, p.Works.Products[0].Width)
	assert.Equal(t, 458, p.Works.Products[0].Height)

	_, err = LoadProfile(fsys, "broken.yaml")
	assert.Error(t, err)
	_, err = LoadProfile(fsys, "nameless.yaml")
	assert.Error(t, err)
	_, err = LoadProfile(fsys, "missing.yaml")
	assert.Error(t, err)
}
