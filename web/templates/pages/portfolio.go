package pages

import (
	"github.com/nfrund/portfolio/internal/content"
	"github.com/nfrund/portfolio/web/templates/components"
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// PortfolioData is everything the home page renders.
type PortfolioData struct {
	Profile      *content.Profile
	Companies    []content.CompanyDTO
	Testimonials []content.TestimonialDTO
}

// Portfolio renders the single marketing page.
func Portfolio(d PortfolioData) gomponents.Node {
	return Main(Class("mx-auto flex w-full max-w-2xl flex-col gap-16 px-6 py-16"),
		components.Intro(d.Profile, d.Companies),
		components.ExperienceSection(d.Profile.Experience),
		components.WorksSection(d.Profile.Works),
		components.TestimonialsSection(d.Profile.TestimonialsHeading, d.Testimonials),
	)
}
