package components

import (
	"net/url"

	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// DefaultAccept is the picker's file filter when a field declares none.
const DefaultAccept = "image/jpeg,image/png,image/webp,image/svg+xml,image/gif"

// PickerProps is one render of the asset picker.
type PickerProps struct {
	Field    string
	State    string
	URL      string
	Error    string
	Accept   string
	Endpoint string
}

func (p PickerProps) id() string {
	return "picker-" + p.Field
}

func (p PickerProps) link(extra url.Values) string {
	q := url.Values{"field": {p.Field}}
	for k, v := range extra {
		q[k] = v
	}
	return p.Endpoint + "?" + q.Encode()
}

// Picker renders the asset picker in its current state. A success render
// also replaces the field's value out of band.
func Picker(p PickerProps) gomponents.Node {
	if p.Accept == "" {
		p.Accept = DefaultAccept
	}

	var body gomponents.Node
	switch p.State {
	case "uploading":
		body = Div(Class("picker-card flex items-center gap-2"),
			Span(Class("spinner"), gomponents.Attr("aria-hidden", "true")),
			Span(gomponents.Text("Uploading...")),
		)
	case "error":
		body = Div(Class("picker-card picker-error space-y-3"), Role("alert"),
			P(Class("font-medium"), gomponents.Text("Upload failed")),
			gomponents.If(p.Error != "", P(Class("text-muted-foreground"), gomponents.Text(p.Error))),
			Button(Type("button"), Class("btn btn-primary"),
				hx.Get(p.link(url.Values{"state": {p.State}, "event": {"retry"}})),
				hx.Target("#"+p.id()),
				hx.Swap("outerHTML"),
				gomponents.Text("Try again"),
			),
		)
	case "success":
		body = Div(Class("picker-card picker-success flex items-center gap-3"), Role("status"),
			Span(gomponents.Text("Upload complete! Added to document.")),
			Button(Type("button"), Class("btn"),
				hx.Get(p.link(nil)),
				hx.Target("#"+p.id()),
				hx.Swap("outerHTML"),
				gomponents.Text("Upload another"),
			),
		)
	default:
		body = Label(Class("picker-card picker-drop flex cursor-pointer flex-col items-center gap-3"),
			Input(Type("file"), Class("sr-only"), gomponents.Attr("accept", p.Accept), gomponents.Attr("data-picker-input")),
			Span(Class("font-medium"), gomponents.Text("Click to select an image")),
			Span(Class("text-sm text-muted-foreground"), gomponents.Text("JPEG, PNG, WebP, SVG, or GIF")),
		)
	}

	picker := Div(ID(p.id()), Class("picker"),
		gomponents.Attr("data-picker"),
		gomponents.Attr("data-field", p.Field),
		gomponents.Attr("data-state", p.State),
		gomponents.Attr("data-endpoint", p.Endpoint),
		body,
	)
	if p.State != "success" {
		return picker
	}
	return gomponents.Group([]gomponents.Node{picker, FieldValue(p.Field, p.URL, p.URL, true)})
}

// FieldValue holds an image field's submitted value with a preview.
func FieldValue(field, value, preview string, oob bool) gomponents.Node {
	return Div(ID("value-"+field), Class("field-value flex items-center gap-3"),
		gomponents.If(oob, hx.SwapOOB("true")),
		Input(Type("hidden"), Name(field), Value(value)),
		gomponents.Iff(preview != "", func() gomponents.Node {
			return Img(Src(preview), Alt(""), Class("picker-preview max-h-24 rounded object-contain"))
		}),
		gomponents.If(value == "", Span(Class("text-sm text-muted-foreground"), gomponents.Text("No image"))),
	)
}
