package components

import (
	"strings"
	"unicode/utf8"

	"github.com/nfrund/portfolio/internal/content"
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Initials returns up to two leading letters of name's words.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}

// Avatar renders the author image, falling back to initials.
func Avatar(src, name string) gomponents.Node {
	return Span(Class("avatar relative flex size-10 shrink-0 overflow-hidden rounded-full"),
		gomponents.Iff(src != "", func() gomponents.Node {
			return Img(Src(src), Alt(name), Class("aspect-square size-full"))
		}),
		gomponents.If(src == "", Span(Class("avatar-fallback flex size-full items-center justify-center rounded-full bg-muted"), gomponents.Text(Initials(name)))),
	)
}

// TestimonialCard renders one testimonial.
func TestimonialCard(t content.TestimonialDTO) gomponents.Node {
	return Div(Class("testimonial flex flex-col gap-6 rounded-[18px] border border-border p-[18px]"),
		P(Class("text-base font-light text-muted-foreground"), gomponents.Text(t.Quote)),
		Div(Class("flex items-center gap-3"),
			Avatar(t.AuthorAvatar, t.AuthorName),
			Div(Class("flex flex-col"),
				Span(Class("text-base font-semibold text-foreground"), gomponents.Text(t.AuthorName)),
				Div(Class("flex items-center gap-1.5"),
					Span(Class("text-xs font-light text-muted-foreground"), gomponents.Text(t.AuthorRole)),
					gomponents.Iff(t.Company.Logo != "", func() gomponents.Node {
						return Img(Src(t.Company.Logo), Alt(t.Company.Name), Class("h-3.5 w-fit"))
					}),
					gomponents.If(t.Company.Logo == "", Span(Class("text-xs font-medium text-foreground"), gomponents.Text(t.Company.Name))),
				),
			),
		),
	)
}

// TestimonialsSection renders the heading and every testimonial in order.
func TestimonialsSection(h content.Heading, items []content.TestimonialDTO) gomponents.Node {
	return Section(ID("testimonials"), Class("flex flex-col items-center gap-7"),
		SectionHeading(h, "gradient-cool"),
		Div(Class("flex w-full flex-col gap-[18px]"),
			gomponents.Map(items, TestimonialCard),
		),
	)
}
