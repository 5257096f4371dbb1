package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/portfolio/internal/view"
	"github.com/nfrund/portfolio/web/templates/components"
	"maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// Page describes the document around a page body.
type Page struct {
	Title       string
	Site        string
	Description string
	Flash       view.FlashData
	// Studio pages load htmx and the asset picker script.
	Studio bool
}

// Base renders the HTML document with body in its main slot.
func Base(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := []gomponents.Node{
			h.Link(h.Rel("stylesheet"), h.Href("/static/css/site.css")),
			h.Link(h.Rel("icon"), h.Href("/static/icons/favicon.svg"), h.Type("image/svg+xml")),
		}
		if p.Studio {
			head = append(head,
				h.Script(h.Src("https://unpkg.com/htmx.org@2.0.4"), h.Defer()),
				h.Script(h.Src("/static/js/picker.js"), h.Defer()),
			)
		}

		return c.HTML5(c.HTML5Props{
			Title:       CalculateTitle(p.Title, p.Site),
			Description: p.Description,
			Language:    "en",
			Head:        head,
			Body: []gomponents.Node{
				h.Div(h.Class("dark min-h-dvh overflow-x-hidden antialiased"),
					components.Flash(p.Flash),
					view.Node(ctx, body),
				),
			},
		}).Render(w)
	})
}
