package domain

// Kind is the CMS document type of a record.
type Kind string

const (
	KindCompany     Kind = "company"
	KindTestimonial Kind = "testimonial"
)

// Kinds lists every document type declared in the content schema.
func Kinds() []Kind {
	return []Kind{KindCompany, KindTestimonial}
}

func (k Kind) String() string {
	return string(k)
}
