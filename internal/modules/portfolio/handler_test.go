package portfolio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/cache"
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/content"
	"github.com/nfrund/portfolio/internal/registry"
	"github.com/nfrund/portfolio/internal/rendering"
	"github.com/nfrund/portfolio/internal/testutils"
	"github.com/nfrund/portfolio/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	e      *echo.Echo
	sanity *testutils.SanityServer
	store  *cache.Store
}

func setup(t *testing.T, docs ...map[string]any) fixture {
	t.Helper()

	sanity := testutils.NewSanityServer(t, docs...)
	profile, err := content.LoadProfile(web.Content(), web.ProfileFile)
	require.NoError(t, err)

	store := cache.NewStore(cache.Days)
	svc := content.NewService(sanity.Client(), cms.NewImageURLBuilder(sanity.ProjectID, sanity.Dataset), store)

	m := New(Dependencies{Content: svc, Store: store, Profile: profile, Renderer: rendering.NewUniversalRenderer()})
	reg := registry.New(&config.Config{})
	require.NoError(t, m.Register(reg))

	e := echo.New()
	require.NoError(t, m.Boot(context.Background(), e.Group(""), reg))
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	return fixture{e: e, sanity: sanity, store: store}
}

func get(e *echo.Echo) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestPage_RendersTestimonialWithCompanyLogo(t *testing.T) {
	f := setup(t,
		testutils.Company("acme", "Acme", 0),
		testutils.Testimonial("t1", "Great", "Ada Lovelace", "Principal Engineer at", "acme", 0),
	)

	rec := get(f.e)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, `class="testimonial `), "exactly one testimonial card")
	assert.Contains(t, body, "Great")
	assert.Contains(t, body, `text-foreground">Ada Lovelace</span>`)
	assert.Contains(t, body, `text-muted-foreground">Principal Engineer at</span>`)
	assert.Contains(t, body, `src="https://cdn.sanity.io/images/testproj/production/acmelogo-200x100.png"`)
	assert.Contains(t, body, `alt="Acme"`)
	assert.Contains(t, body, "<title>Karthik Portfolio</title>")
	assert.Equal(t, "public, s-maxage=86400, stale-while-revalidate=518400", rec.Header().Get(echo.HeaderCacheControl))
}

func TestPage_MissingAvatarFallsBackToInitials(t *testing.T) {
	f := setup(t,
		testutils.Company("acme", "Acme", 0),
		testutils.Testimonial("t1", "Solid work", "Jane Q Doe", "CTO at", "acme", 0),
	)

	body := get(f.e).Body.String()
	assert.Contains(t, body, `avatar-fallback`)
	assert.Contains(t, body, ">JQ<")
}

func TestPage_AboutListsCompaniesInOrder(t *testing.T) {
	f := setup(t,
		testutils.Company("b", "Beta", 2),
		testutils.Company("a", "Alpha", 1),
		testutils.Company("c", "Gamma", 3),
	)

	body := get(f.e).Body.String()
	alpha := strings.Index(body, ">Alpha<")
	beta := strings.Index(body, ">Beta<")
	gamma := strings.Index(body, ">Gamma<")
	require.True(t, alpha > 0 && beta > 0 && gamma > 0)
	assert.Less(t, alpha, beta)
	assert.Less(t, beta, gamma)
}

func TestPage_ServedFromCacheUntilInvalidated(t *testing.T) {
	f := setup(t, testutils.Company("acme", "Acme", 0))

	require.Equal(t, http.StatusOK, get(f.e).Code)
	require.Equal(t, http.StatusOK, get(f.e).Code)
	assert.Equal(t, 2, f.sanity.Queries(), "second render must come from the cache")

	f.sanity.Seed(t, testutils.Company("acme", "Acme Renamed", 0))
	f.store.Invalidate(cache.TagCompanies)

	// The stale value is served while the refresh runs.
	assert.Contains(t, get(f.e).Body.String(), ">Acme<")
	f.store.Wait()
	assert.Contains(t, get(f.e).Body.String(), "Acme Renamed")
}

func TestPage_UpstreamFailureIs500(t *testing.T) {
	f := setup(t)
	f.sanity.FailWith(http.StatusBadGateway)

	rec := get(f.e)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
