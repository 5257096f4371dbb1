package pages

import (
	"strconv"

	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/schema"
	"github.com/nfrund/portfolio/web/templates/components"
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// StudioBase is the mount point of the studio.
const StudioBase = "/studio"

// StudioItem is one row of a document list.
type StudioItem struct {
	ID       string
	Title    string
	Subtitle string
	Media    string
}

// StudioListData is a document list of one type.
type StudioListData struct {
	Types []schema.DocumentType
	Type  schema.DocumentType
	Items []StudioItem
}

// StudioOption is a choice of a reference field.
type StudioOption struct {
	Value string
	Label string
}

// StudioField is one rendered form field.
type StudioField struct {
	Field   schema.Field
	Label   string
	Value   string
	Preview string
	Error   string
	Options []StudioOption
}

// StudioFormData is the edit form of one document.
type StudioFormData struct {
	Types          []schema.DocumentType
	Type           schema.DocumentType
	ID             string
	IsNew          bool
	Fields         []StudioField
	PickerEndpoint string
}

func studioPath(kind domain.Kind, parts ...string) string {
	p := StudioBase + "/" + kind.String()
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// StudioNav links every document type.
func StudioNav(types []schema.DocumentType, active domain.Kind) gomponents.Node {
	return Nav(Class("studio-nav flex gap-4 border-b pb-4"),
		gomponents.Map(types, func(t schema.DocumentType) gomponents.Node {
			cls := "studio-nav-link"
			if t.Name == active {
				cls += " active"
			}
			return A(Href(studioPath(t.Name)), Class(cls), gomponents.Text(t.Title))
		}),
	)
}

// StudioList renders the documents of one type.
func StudioList(d StudioListData) gomponents.Node {
	return Main(Class("studio mx-auto flex w-full max-w-3xl flex-col gap-6 px-6 py-10"),
		StudioNav(d.Types, d.Type.Name),
		Div(Class("flex items-center justify-between"),
			H1(Class("text-2xl font-semibold"), gomponents.Text(d.Type.Title)),
			A(Href(studioPath(d.Type.Name, "new")), Class("btn btn-primary"), gomponents.Text("Create new")),
		),
		gomponents.If(len(d.Items) == 0,
			P(Class("text-muted-foreground"), gomponents.Text("No documents yet.")),
		),
		Ul(Class("studio-list divide-y"),
			gomponents.Map(d.Items, func(it StudioItem) gomponents.Node {
				return Li(Class("studio-item"),
					A(Href(studioPath(d.Type.Name, it.ID)), Class("flex items-center gap-3 py-3"),
						gomponents.Iff(it.Media != "", func() gomponents.Node {
							return Img(Src(it.Media), Alt(""), Class("size-10 rounded object-contain"))
						}),
						Div(
							P(Class("studio-item-title font-medium"), gomponents.Text(it.Title)),
							gomponents.If(it.Subtitle != "", P(Class("text-sm text-muted-foreground"), gomponents.Text(it.Subtitle))),
						),
					),
				)
			}),
		),
	)
}

// StudioForm renders the schema-driven editor of one document.
func StudioForm(d StudioFormData) gomponents.Node {
	heading := "Edit " + d.Type.Title
	if d.IsNew {
		heading = "New " + d.Type.Title
	}

	return Main(Class("studio mx-auto flex w-full max-w-3xl flex-col gap-6 px-6 py-10"),
		StudioNav(d.Types, d.Type.Name),
		H1(Class("text-2xl font-semibold"), gomponents.Text(heading)),
		Form(ID("document-form"), Method("post"), Action(studioPath(d.Type.Name)), Class("flex flex-col gap-5"),
			gomponents.If(!d.IsNew, Input(Type("hidden"), Name("_id"), Value(d.ID))),
			gomponents.Map(d.Fields, func(f StudioField) gomponents.Node {
				return studioField(f, d.PickerEndpoint)
			}),
			Div(Class("flex gap-3"),
				Button(Type("submit"), Class("btn btn-primary"), gomponents.Text("Publish")),
				A(Href(studioPath(d.Type.Name)), Class("btn"), gomponents.Text("Cancel")),
			),
		),
		gomponents.If(!d.IsNew,
			Form(Method("post"), Action(studioPath(d.Type.Name, d.ID, "delete")),
				gomponents.Attr("onsubmit", "return confirm('Delete this document?')"),
				Button(Type("submit"), Class("btn btn-danger"), gomponents.Text("Delete")),
			),
		),
	)
}

func studioField(f StudioField, pickerEndpoint string) gomponents.Node {
	id := "field-" + f.Field.Name
	var input gomponents.Node
	switch f.Field.Type {
	case schema.FieldText:
		rows := f.Field.Rows
		if rows == 0 {
			rows = 3
		}
		input = Textarea(ID(id), Name(f.Field.Name), gomponents.Attr("rows", strconv.Itoa(rows)),
			gomponents.If(f.Field.Required, Required()),
			gomponents.Text(f.Value),
		)
	case schema.FieldNumber:
		input = Input(Type("number"), ID(id), Name(f.Field.Name), Value(f.Value), gomponents.Attr("step", "any"))
	case schema.FieldURL:
		input = Input(Type("url"), ID(id), Name(f.Field.Name), Value(f.Value))
	case schema.FieldReference:
		input = Select(ID(id), Name(f.Field.Name),
			gomponents.If(f.Field.Required, Required()),
			Option(Value(""), gomponents.Text("Select...")),
			gomponents.Map(f.Options, func(o StudioOption) gomponents.Node {
				return Option(Value(o.Value), gomponents.If(o.Value == f.Value, Selected()), gomponents.Text(o.Label))
			}),
		)
	case schema.FieldImage:
		input = Div(Class("flex flex-col gap-2"),
			components.FieldValue(f.Field.Name, f.Value, f.Preview, false),
			components.Picker(components.PickerProps{
				Field:    f.Field.Name,
				State:    "idle",
				Accept:   f.Field.Accept,
				Endpoint: pickerEndpoint,
			}),
		)
	default:
		input = Input(Type("text"), ID(id), Name(f.Field.Name), Value(f.Value),
			gomponents.If(f.Field.Required, Required()),
		)
	}

	return Div(Class("studio-field flex flex-col gap-1"),
		Label(For(id), Class("font-medium"),
			gomponents.Text(f.Label),
			gomponents.If(f.Field.Required, Span(Class("text-red-500"), gomponents.Text(" *"))),
		),
		gomponents.If(f.Field.Description != "", P(Class("text-sm text-muted-foreground"), gomponents.Text(f.Field.Description))),
		input,
		gomponents.If(f.Error != "", P(Class("field-error text-sm text-red-500"), gomponents.Text(f.Label+" "+f.Error))),
	)
}
