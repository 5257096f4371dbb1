package components

import (
	"github.com/nfrund/portfolio/internal/content"
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// ExperienceItem renders one linked experience row.
func ExperienceItem(e content.Experience) gomponents.Node {
	return A(Href(e.URL), Target("_blank"), Rel("noopener noreferrer"),
		Class("flex items-center justify-between gap-4 rounded-md p-4 hover:bg-muted"),
		Div(Class("flex flex-col gap-1"),
			Div(Class("flex items-center gap-1 text-base font-semibold text-foreground"),
				gomponents.Text(e.Company),
				Span(Class("arrow"), gomponents.Raw("&#8599;")),
			),
			P(Class("text-sm font-light"), gomponents.Text(e.Description)),
		),
		Span(Class("self-start text-sm font-medium text-muted-foreground md:self-center"), gomponents.Text(e.Role)),
	)
}

// ExperienceSection renders the experience list with separators.
func ExperienceSection(items []content.Experience) gomponents.Node {
	var rows []gomponents.Node
	for i, e := range items {
		rows = append(rows, Div(ExperienceItem(e), gomponents.If(i < len(items)-1, Hr(Class("border-border")))))
	}
	return Section(Class("flex flex-col gap-6"),
		H2(Class("text-center text-3xl font-semibold text-foreground"), gomponents.Text("Hands-on Experience")),
		Div(Class("flex flex-col"), gomponents.Group(rows)),
	)
}
