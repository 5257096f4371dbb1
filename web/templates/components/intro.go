package components

import (
	"github.com/nfrund/portfolio/internal/content"
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Hero renders the name and title block.
func Hero(name, title string) gomponents.Node {
	return Div(Class("flex flex-col gap-2"),
		H1(Class("text-4xl font-semibold text-foreground"), gomponents.Text(name)),
		P(Class("text-3xl font-semibold text-muted-foreground"), gomponents.Text(title)),
	)
}

// CompanyLogos renders the logo strip. Companies without a logo are skipped.
func CompanyLogos(companies []content.CompanyDTO) gomponents.Node {
	var logos []gomponents.Node
	for _, co := range companies {
		if co.Logo == "" {
			continue
		}
		logos = append(logos, Img(Src(co.Logo), Alt(co.Name+" Logo"), Class("h-6 w-auto"), Loading("lazy")))
	}
	if len(logos) == 0 {
		return nil
	}
	return Div(ID("company-logos"), Class("grid grid-cols-2 items-center gap-x-1 gap-y-3.5"), gomponents.Group(logos))
}

// About renders the about paragraphs. A companies segment lists the CMS
// company names as highlights.
func About(paragraphs []content.Paragraph, companies []content.CompanyDTO) gomponents.Node {
	return Div(Class("space-y-3 text-base font-light text-muted-foreground"),
		gomponents.Map(paragraphs, func(p content.Paragraph) gomponents.Node {
			return P(gomponents.Map(p, func(s content.Segment) gomponents.Node {
				switch {
				case s.Companies:
					return companyList(companies)
				case s.Highlight:
					return highlight(s.Text)
				default:
					return gomponents.Text(s.Text)
				}
			}))
		}),
	)
}

func highlight(text string) gomponents.Node {
	return Span(Class("font-medium text-foreground"), gomponents.Text(text))
}

// companyList renders "A", "A and B" or "A, B and C".
func companyList(companies []content.CompanyDTO) gomponents.Node {
	var nodes []gomponents.Node
	for i, co := range companies {
		switch {
		case i == 0:
		case i == len(companies)-1:
			nodes = append(nodes, gomponents.Text(" and "))
		default:
			nodes = append(nodes, gomponents.Text(", "))
		}
		nodes = append(nodes, highlight(co.Name))
	}
	return gomponents.Group(nodes)
}

// SocialLinks renders the pill links.
func SocialLinks(links []content.SocialLink) gomponents.Node {
	return Div(Class("flex flex-wrap gap-2"),
		gomponents.Map(links, func(l content.SocialLink) gomponents.Node {
			return A(Href(l.Href), Target("_blank"), Rel("noopener noreferrer"),
				Class("inline-flex items-center gap-1 rounded-full border border-border bg-card px-2 py-1 text-base font-semibold text-foreground transition-colors hover:bg-muted"),
				Img(Src(l.Icon), Alt(l.Label), Width("18"), Height("18")),
				Span(gomponents.Text(l.Label)),
			)
		}),
	)
}

// Intro is the top section of the page.
func Intro(p *content.Profile, companies []content.CompanyDTO) gomponents.Node {
	return Section(Class("flex flex-col gap-7"),
		Hero(p.Name, p.Title),
		Div(Class("flex flex-col gap-6"),
			CompanyLogos(companies),
			Div(Class("flex flex-col gap-6"),
				About(p.About, companies),
				SocialLinks(p.Socials),
			),
		),
	)
}
