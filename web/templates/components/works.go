package components

import (
	"fmt"
	"strconv"

	"github.com/nfrund/portfolio/internal/content"
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// SectionHeading renders a two-tone serif heading with an optional icon or
// emoji after the accent.
func SectionHeading(h content.Heading, gradient string) gomponents.Node {
	return H2(Class("text-center font-serif text-4xl"),
		Span(Class("text-muted-foreground"), gomponents.Text(h.Lead)),
		Div(Class("inline-flex items-baseline space-x-2 md:inline"),
			Span(Class("bg-clip-text text-transparent "+gradient), gomponents.Text(h.Accent)),
			gomponents.If(h.Emoji != "", Span(gomponents.Text(h.Emoji))),
			gomponents.If(h.Icon != "", Img(Src(h.Icon), Alt("heading icon"), Width("20"), Height("20"), Class("inline"))),
		),
	)
}

// ProductCard renders one carousel card at its configured size.
func ProductCard(p content.Product) gomponents.Node {
	return Div(Class("shrink-0 overflow-hidden rounded-[14px]"),
		Style(fmt.Sprintf("background-color: %s; width: %dpx; height: %dpx", p.BackgroundColor, p.Width, p.Height)),
		Img(Src(p.Image), Alt(p.Alt), Width(strconv.Itoa(p.Width)), Height(strconv.Itoa(p.Height)), Class("size-full object-cover"), Loading("lazy")),
	)
}

// WorksSection renders the other-works header and carousel.
func WorksSection(w content.Works) gomponents.Node {
	return Section(Class("flex flex-col items-center gap-9"),
		Div(Class("flex flex-col items-center gap-12"),
			SectionHeading(w.Heading, "gradient-warm"),
			gomponents.If(w.Video != "",
				Video(Src(w.Video), gomponents.Attr("autoplay"), gomponents.Attr("loop"), gomponents.Attr("muted"), gomponents.Attr("playsinline"), Width("300"), Height("200"), Class("h-64 w-auto")),
			),
			P(Class("text-center font-serif text-2xl text-muted-foreground"), gomponents.Text(w.Subtitle)),
		),
		Div(Class("carousel w-full overflow-x-auto"),
			Div(Class("flex gap-4 px-3"),
				gomponents.Map(w.Products, ProductCard),
			),
		),
	)
}
