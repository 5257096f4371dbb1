package portfolio

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/cache"
	"github.com/nfrund/portfolio/internal/content"
	"github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/rendering"
	"github.com/nfrund/portfolio/internal/view"
	"github.com/nfrund/portfolio/web/templates/layouts"
	"github.com/nfrund/portfolio/web/templates/pages"
	"golang.org/x/sync/errgroup"
)

// Handler renders the page.
type Handler struct {
	content  *content.Service
	profile  *content.Profile
	renderer rendering.Renderer
}

// NewHandler creates a page handler.
func NewHandler(svc *content.Service, profile *content.Profile, renderer rendering.Renderer) *Handler {
	return &Handler{content: svc, profile: profile, renderer: renderer}
}

// Page fetches companies and testimonials concurrently, sharing one request
// memo, and renders every section.
func (h *Handler) Page(c echo.Context) error {
	ctx := c.Request().Context()
	req := cache.NewRequest()

	data := pages.PortfolioData{Profile: h.profile}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		companies, err := h.content.Companies(gctx, req)
		data.Companies = companies
		return err
	})
	g.Go(func() error {
		testimonials, err := h.content.Testimonials(gctx, req)
		data.Testimonials = testimonials
		return err
	})
	if err := g.Wait(); err != nil {
		middleware.FromContext(ctx).Error("Failed to load page content", "error", err)
		return fmt.Errorf("load page content: %w", err)
	}

	page := layouts.Base(layouts.Page{
		Site:        h.profile.SiteName,
		Description: h.profile.Summary,
	}, view.Templ(pages.Portfolio(data)))
	return h.renderer.RenderPage(c, http.StatusOK, page)
}
