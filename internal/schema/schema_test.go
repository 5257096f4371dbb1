package schema

import (
	"testing"

	"github.com/nfrund/portfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	types := Types()
	require.Len(t, types, 2)
	assert.Equal(t, domain.KindCompany, types[0].Name)
	assert.Equal(t, domain.KindTestimonial, types[1].Name)

	logo, ok := Company.Field("logo")
	require.True(t, ok)
	assert.True(t, logo.Required)
	assert.Equal(t, "image/svg+xml,image/png,image/webp", logo.Accept)

	company, ok := Testimonial.Field("company")
	require.True(t, ok)
	assert.Equal(t, domain.KindCompany, company.To)
}

func TestValidate_Company(t *testing.T) {
	doc := map[string]any{
		"_id":     "company-acme",
		"_type":   "company",
		"name":    "Acme",
		"logo":    map[string]any{"_type": "image", "asset": map[string]any{"url": "https://x/a.svg"}},
		"website": "https://acme.example",
		"order":   float64(1),
	}
	assert.NoError(t, Validate(doc))
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	doc := map[string]any{
		"_type":   "company",
		"name":    "  ",
		"website": "not a url",
		"order":   "first",
	}

	err := Validate(doc)
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "is required", verr.For("name"))
	assert.Equal(t, "is required", verr.For("logo"))
	assert.Equal(t, "must be a valid URL", verr.For("website"))
	assert.Equal(t, "must be a number", verr.For("order"))
	assert.Empty(t, verr.For("description"))
}

func TestValidate_TestimonialReference(t *testing.T) {
	doc := map[string]any{
		"_type":      "testimonial",
		"quote":      "Great",
		"authorName": "A",
		"authorRole": "B",
	}
	verr, ok := AsValidationError(Validate(doc))
	require.True(t, ok)
	assert.Equal(t, "is required", verr.For("company"))
	assert.Empty(t, verr.For("authorAvatar"))

	doc["company"] = map[string]any{"_type": "reference", "_ref": "company-acme"}
	assert.NoError(t, Validate(doc))
}

func TestValidate_UnknownType(t *testing.T) {
	assert.ErrorIs(t, Validate(map[string]any{}), domain.ErrMissingDocumentType)
	assert.Error(t, Validate(map[string]any{"_type": "post"}))
}
