package cms

import (
	"context"

	"github.com/nfrund/portfolio/internal/domain"
)

// Query is a named read against the content lake. Name is the query identity
// used for caching. Type, ID, Expand and Single describe the same selection
// structurally so that sources other than the hosted API can evaluate it.
type Query struct {
	Name   string
	GROQ   string
	Params map[string]any

	Type   domain.Kind
	ID     string
	Expand []string
	Single bool
}

// TestimonialsQuery selects every testimonial in display order with its
// company reference expanded.
var TestimonialsQuery = Query{
	Name: "testimonials",
	GROQ: `*[_type == "testimonial"] | order(order asc) {
  _id,
  quote,
  authorName,
  authorRole,
  authorAvatar,
  order,
  company->{
    _id,
    name,
    logo
  }
}`,
	Type:   domain.KindTestimonial,
	Expand: []string{"company"},
}

// CompaniesQuery selects every company in display order.
var CompaniesQuery = Query{
	Name: "companies",
	GROQ: `*[_type == "company"] | order(order asc) {
  _id,
  name,
  logo,
  website,
  description,
  order
}`,
	Type: domain.KindCompany,
}

// DocumentsQuery selects raw documents of one kind in display order.
func DocumentsQuery(kind domain.Kind) Query {
	return Query{
		Name:   "documents:" + kind.String(),
		GROQ:   `*[_type == $type] | order(order asc)`,
		Params: map[string]any{"type": kind.String()},
		Type:   kind,
	}
}

// DocumentQuery selects one raw document by id, or null.
func DocumentQuery(id string) Query {
	return Query{
		Name:   "document:" + id,
		GROQ:   `*[_id == $id][0]`,
		Params: map[string]any{"id": id},
		ID:     id,
		Single: true,
	}
}

// DocumentStore reads and writes raw documents. The hosted client (with a
// write token) and the local dataset both satisfy it.
type DocumentStore interface {
	Fetch(ctx context.Context, q Query, out any) error
	Mutate(ctx context.Context, mutations ...Mutation) (*MutateResult, error)
}
