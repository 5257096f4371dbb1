package domain

// Company is the raw CMS record for a company the site owner worked with.
// Website and Description are optional and arrive empty when unset.
type Company struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Logo        *Image  `json:"logo,omitempty"`
	Website     string  `json:"website,omitempty"`
	Description string  `json:"description,omitempty"`
	Order       float64 `json:"order,omitempty"`
}
