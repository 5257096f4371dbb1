// Package schema declares the authored document types and validates
// documents against them before they are written to the content lake.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/portfolio/internal/domain"
)

// FieldType is the storage type of a document field.
type FieldType string

const (
	FieldString    FieldType = "string"
	FieldText      FieldType = "text"
	FieldURL       FieldType = "url"
	FieldNumber    FieldType = "number"
	FieldImage     FieldType = "image"
	FieldReference FieldType = "reference"
)

// Field describes a single authored field.
type Field struct {
	Name        string      `json:"name" yaml:"name"`
	Title       string      `json:"title" yaml:"title"`
	Type        FieldType   `json:"type" yaml:"type"`
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Rows        int         `json:"rows,omitempty" yaml:"rows,omitempty"`
	Accept      string      `json:"accept,omitempty" yaml:"accept,omitempty"`
	Hotspot     bool        `json:"hotspot,omitempty" yaml:"hotspot,omitempty"`
	To          domain.Kind `json:"to,omitempty" yaml:"to,omitempty"`
	Initial     any         `json:"initialValue,omitempty" yaml:"initialValue,omitempty"`
}

// Preview selects the fields used to label a document in lists.
type Preview struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Media    string `json:"media,omitempty" yaml:"media,omitempty"`
}

// DocumentType describes one authored document kind.
type DocumentType struct {
	Name    domain.Kind `json:"name" yaml:"name"`
	Title   string      `json:"title" yaml:"title"`
	Icon    string      `json:"icon,omitempty" yaml:"icon,omitempty"`
	Fields  []Field     `json:"fields" yaml:"fields"`
	Preview Preview     `json:"preview" yaml:"preview"`
}

// Field returns the named field.
func (t DocumentType) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var orderField = Field{
	Name:        "order",
	Title:       "Display Order",
	Type:        FieldNumber,
	Description: "Lower numbers appear first",
	Initial:     0,
}

// Company is the company document type.
var Company = DocumentType{
	Name:  domain.KindCompany,
	Title: "Company",
	Icon:  "building",
	Fields: []Field{
		{Name: "name", Title: "Company Name", Type: FieldString, Required: true},
		{
			Name:        "logo",
			Title:       "Logo",
			Type:        FieldImage,
			Required:    true,
			Accept:      "image/svg+xml,image/png,image/webp",
			Description: "Company logo (preferably SVG or PNG with transparency)",
		},
		{Name: "website", Title: "Website", Type: FieldURL, Description: "Company website URL"},
		{Name: "description", Title: "Description", Type: FieldText, Rows: 2, Description: "Brief description of the company"},
		orderField,
	},
	Preview: Preview{Title: "name", Subtitle: "website", Media: "logo"},
}

// Testimonial is the testimonial document type.
var Testimonial = DocumentType{
	Name:  domain.KindTestimonial,
	Title: "Testimonial",
	Icon:  "quote",
	Fields: []Field{
		{Name: "quote", Title: "Quote", Type: FieldText, Rows: 4, Required: true},
		{Name: "authorName", Title: "Author Name", Type: FieldString, Required: true},
		{Name: "authorRole", Title: "Author Role", Type: FieldString, Required: true, Description: `e.g. "Senior Product Manager"`},
		{Name: "company", Title: "Company", Type: FieldReference, Required: true, To: domain.KindCompany},
		{Name: "authorAvatar", Title: "Author Avatar", Type: FieldImage, Hotspot: true, Description: "Author's profile photo"},
		orderField,
	},
	Preview: Preview{Title: "authorName", Subtitle: "authorRole", Media: "authorAvatar"},
}

// Types returns every document type in studio display order.
func Types() []DocumentType {
	return []DocumentType{Company, Testimonial}
}

// Lookup returns the document type for kind.
func Lookup(kind domain.Kind) (DocumentType, bool) {
	for _, t := range Types() {
		if t.Name == kind {
			return t, true
		}
	}
	return DocumentType{}, false
}

// FieldError is a single failed field rule.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError collects every failed field of a document.
type ValidationError struct {
	Type   domain.Kind
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("invalid %s: %s", e.Type, strings.Join(msgs, "; "))
}

// For returns the message for field, or "" when it passed.
func (e *ValidationError) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

var validate = validator.New()

// Validate checks doc against its declared type. The returned error is a
// *ValidationError when fields fail.
func Validate(doc map[string]any) error {
	kind, _ := doc["_type"].(string)
	if kind == "" {
		return domain.ErrMissingDocumentType
	}
	t, ok := Lookup(domain.Kind(kind))
	if !ok {
		return fmt.Errorf("unknown document type %q", kind)
	}

	verr := &ValidationError{Type: t.Name}
	for _, f := range t.Fields {
		if msg := checkField(f, doc[f.Name]); msg != "" {
			verr.Fields = append(verr.Fields, FieldError{Field: f.Name, Message: msg})
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

func checkField(f Field, value any) string {
	switch f.Type {
	case FieldString, FieldText, FieldURL:
		s, ok := value.(string)
		if value != nil && !ok {
			return "must be text"
		}
		rule := "omitempty"
		if f.Required {
			rule = "required"
		}
		if f.Type == FieldURL {
			rule += ",url"
		}
		if err := validate.Var(strings.TrimSpace(s), rule); err != nil {
			return ruleMessage(err)
		}
	case FieldNumber:
		if value == nil {
			if f.Required {
				return "is required"
			}
			return ""
		}
		switch value.(type) {
		case float64, float32, int, int64:
		default:
			return "must be a number"
		}
	case FieldImage:
		if !hasNested(value, "asset") {
			if f.Required {
				return "is required"
			}
		}
	case FieldReference:
		m, _ := value.(map[string]any)
		ref, _ := m["_ref"].(string)
		if ref == "" && f.Required {
			return "is required"
		}
	}
	return ""
}

func hasNested(value any, key string) bool {
	m, ok := value.(map[string]any)
	if !ok {
		return false
	}
	asset, ok := m[key].(map[string]any)
	if !ok {
		return false
	}
	ref, _ := asset["_ref"].(string)
	url, _ := asset["url"].(string)
	return ref != "" || url != ""
}

func ruleMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			return "is required"
		case "url":
			return "must be a valid URL"
		}
		return "failed " + verrs[0].Tag()
	}
	return err.Error()
}
