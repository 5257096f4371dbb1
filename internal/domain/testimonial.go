package domain

// Testimonial is the raw CMS record for a quote, with its company reference
// already expanded one level by the query.
type Testimonial struct {
	ID           string  `json:"_id"`
	Quote        string  `json:"quote"`
	AuthorName   string  `json:"authorName"`
	AuthorRole   string  `json:"authorRole"`
	AuthorAvatar *Image  `json:"authorAvatar,omitempty"`
	Company      Company `json:"company"`
	Order        float64 `json:"order,omitempty"`
}
