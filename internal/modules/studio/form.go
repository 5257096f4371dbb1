package studio

import (
	"encoding/json"
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/schema"
	"github.com/nfrund/portfolio/web/templates/pages"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// assetRefPrefix marks content-lake image assets; anything else in an
// image field is an uploaded blob URL.
const assetRefPrefix = "image-"

var titleCaser = cases.Title(language.English)

// Label is the display label of a field.
func Label(f schema.Field) string {
	if f.Title != "" {
		return f.Title
	}
	return titleCaser.String(f.Name)
}

// DocumentFromForm builds the document of type t from submitted form
// values. Keys of existing that are not schema fields are carried over so
// a createOrReplace keeps them. Values that fail to parse are kept as
// submitted for schema.Validate to reject.
func DocumentFromForm(t schema.DocumentType, id string, existing map[string]any, form url.Values) map[string]any {
	doc := make(map[string]any, len(existing)+2)
	maps.Copy(doc, existing)
	doc["_id"] = id
	doc["_type"] = t.Name.String()

	for _, f := range t.Fields {
		raw := strings.TrimSpace(form.Get(f.Name))
		if raw == "" {
			delete(doc, f.Name)
			continue
		}
		switch f.Type {
		case schema.FieldNumber:
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				doc[f.Name] = n
			} else {
				doc[f.Name] = raw
			}
		case schema.FieldImage:
			if prev, ok := existing[f.Name].(map[string]any); ok && imageValue(prev) == raw {
				doc[f.Name] = prev
				continue
			}
			doc[f.Name] = imageField(raw)
		case schema.FieldReference:
			doc[f.Name] = map[string]any{"_type": "reference", "_ref": raw}
		default:
			doc[f.Name] = raw
		}
	}
	return doc
}

func imageField(value string) map[string]any {
	asset := map[string]any{"url": value}
	if strings.HasPrefix(value, assetRefPrefix) {
		asset = map[string]any{"_type": "reference", "_ref": value}
	}
	return map[string]any{"_type": "image", "asset": asset}
}

// FormValues flattens a stored document into one string per field.
func FormValues(t schema.DocumentType, doc map[string]any) map[string]string {
	values := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		v, ok := doc[f.Name]
		if !ok || v == nil {
			if f.Initial != nil {
				values[f.Name] = scalar(f.Initial)
			}
			continue
		}
		switch f.Type {
		case schema.FieldImage:
			m, _ := v.(map[string]any)
			values[f.Name] = imageValue(m)
		case schema.FieldReference:
			m, _ := v.(map[string]any)
			ref, _ := m["_ref"].(string)
			values[f.Name] = ref
		default:
			values[f.Name] = scalar(v)
		}
	}
	return values
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case json.Number:
		return x.String()
	}
	return ""
}

func imageValue(m map[string]any) string {
	asset, _ := m["asset"].(map[string]any)
	if u, _ := asset["url"].(string); u != "" {
		return u
	}
	ref, _ := asset["_ref"].(string)
	return ref
}

// ImageURL resolves an image field value, either form, to a viewable URL.
func ImageURL(images *cms.ImageURLBuilder, value string) string {
	if value == "" || images == nil {
		return value
	}
	if !strings.HasPrefix(value, assetRefPrefix) {
		return value
	}
	return images.URL(&domain.Image{Asset: &domain.AssetRef{Ref: value}})
}

// PreviewOf labels doc using the type's preview selection.
func PreviewOf(t schema.DocumentType, images *cms.ImageURLBuilder, doc map[string]any) pages.StudioItem {
	values := FormValues(t, doc)
	id, _ := doc["_id"].(string)
	p := pages.StudioItem{
		ID:       id,
		Title:    values[t.Preview.Title],
		Subtitle: values[t.Preview.Subtitle],
	}
	if p.Title == "" {
		p.Title = "Untitled"
	}
	if t.Preview.Media != "" {
		p.Media = ImageURL(images, values[t.Preview.Media])
	}
	return p
}
