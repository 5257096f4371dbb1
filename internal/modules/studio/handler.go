package studio

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/handlers"
	"github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/rendering"
	"github.com/nfrund/portfolio/internal/revalidation"
	"github.com/nfrund/portfolio/internal/schema"
	"github.com/nfrund/portfolio/internal/view"
	"github.com/nfrund/portfolio/web/templates/components"
	"github.com/nfrund/portfolio/web/templates/layouts"
	"github.com/nfrund/portfolio/web/templates/pages"
	"maragu.dev/gomponents"
)

const siteName = "Studio"

// PickerRequest is one report of the asset picker.
type PickerRequest struct {
	Field string `query:"field" validate:"required"`
	State string `query:"state"`
	Event string `query:"event"`
	URL   string `query:"url" validate:"omitempty,url"`
	Error string `query:"error"`
}

// Handler serves the studio pages.
type Handler struct {
	docs        cms.DocumentStore
	revalidator *revalidation.Service
	images      *cms.ImageURLBuilder
	renderer    rendering.Renderer
}

// NewHandler creates a studio handler.
func NewHandler(docs cms.DocumentStore, revalidator *revalidation.Service, images *cms.ImageURLBuilder, renderer rendering.Renderer) *Handler {
	return &Handler{docs: docs, revalidator: revalidator, images: images, renderer: renderer}
}

func studioPath(kind domain.Kind, parts ...string) string {
	p := pages.StudioBase + "/" + kind.String()
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func pickerEndpoint(kind domain.Kind) string {
	return pages.StudioBase + "/assets/picker/" + kind.String()
}

func documentType(c echo.Context) (schema.DocumentType, error) {
	t, ok := schema.Lookup(domain.Kind(c.Param("kind")))
	if !ok {
		return schema.DocumentType{}, echo.ErrNotFound
	}
	return t, nil
}

// Index opens the first document type.
func (h *Handler) Index(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, studioPath(schema.Types()[0].Name))
}

// List shows every document of a type.
func (h *Handler) List(c echo.Context) error {
	t, err := documentType(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var docs []map[string]any
	if err := h.docs.Fetch(ctx, cms.DocumentsQuery(t.Name), &docs); err != nil {
		middleware.FromContext(ctx).Error("Failed to list documents", "type", t.Name, "error", err)
		return fmt.Errorf("list %s documents: %w", t.Name, err)
	}

	items := make([]pages.StudioItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, PreviewOf(t, h.images, doc))
	}

	return h.page(c, http.StatusOK, t.Title, view.GetFlashData(c), pages.StudioList(pages.StudioListData{
		Types: schema.Types(),
		Type:  t,
		Items: items,
	}))
}

// New shows an empty form.
func (h *Handler) New(c echo.Context) error {
	t, err := documentType(c)
	if err != nil {
		return err
	}
	return h.form(c, http.StatusOK, t, "", FormValues(t, nil), nil, view.GetFlashData(c))
}

// Edit shows the form of an existing document.
func (h *Handler) Edit(c echo.Context) error {
	t, err := documentType(c)
	if err != nil {
		return err
	}

	doc, err := h.fetch(c, c.Param("id"))
	if err != nil {
		return err
	}
	if doc == nil || doc["_type"] != t.Name.String() {
		return echo.ErrNotFound
	}
	return h.form(c, http.StatusOK, t, c.Param("id"), FormValues(t, doc), nil, view.GetFlashData(c))
}

// Save validates the submitted document, writes it as a whole and
// revalidates the cache tags of its type.
func (h *Handler) Save(c echo.Context) error {
	t, err := documentType(c)
	if err != nil {
		return err
	}
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	id := form.Get("_id")
	var existing map[string]any
	if id != "" {
		if existing, err = h.fetch(c, id); err != nil {
			return err
		}
	}

	var values map[string]string
	doc := DocumentFromForm(t, newID(id), existing, form)
	if err := schema.Validate(doc); err != nil {
		verr, ok := schema.AsValidationError(err)
		if !ok {
			return err
		}
		values = submitted(t, form)
		return h.form(c, http.StatusUnprocessableEntity, t, id, values, verr, view.FlashData{})
	}

	if _, err := h.docs.Mutate(ctx, cms.CreateOrReplace(doc)); err != nil {
		logger.Error("Failed to publish document", "type", t.Name, "id", doc["_id"], "error", err)
		values = submitted(t, form)
		flash := view.FlashData{Error: []string{"Failed to publish: " + err.Error()}}
		return h.form(c, http.StatusBadGateway, t, id, values, nil, flash)
	}
	logger.Info("Document published", "type", t.Name, "id", doc["_id"])

	h.revalidate(c, t.Name, doc["_id"].(string))
	view.SetFlashSuccess(c, fmt.Sprintf("Published %s %q", t.Title, PreviewOf(t, nil, doc).Title))
	return c.Redirect(http.StatusSeeOther, studioPath(t.Name))
}

// Delete removes a document and revalidates its type.
func (h *Handler) Delete(c echo.Context) error {
	t, err := documentType(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.docs.Mutate(ctx, cms.Delete(id)); err != nil {
		middleware.FromContext(ctx).Error("Failed to delete document", "type", t.Name, "id", id, "error", err)
		view.SetFlashError(c, "Failed to delete: "+err.Error())
		return c.Redirect(http.StatusSeeOther, studioPath(t.Name, id))
	}

	h.revalidate(c, t.Name, id)
	view.SetFlashSuccess(c, "Deleted "+t.Title)
	return c.Redirect(http.StatusSeeOther, studioPath(t.Name))
}

// Picker renders the next state of an image field's asset picker. Without
// an event it renders a fresh idle picker.
func (h *Handler) Picker(c echo.Context) error {
	t, err := documentType(c)
	if err != nil {
		return err
	}

	var req PickerRequest
	if err := handlers.Bind(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid picker request")
	}
	f, ok := t.Field(req.Field)
	if !ok || f.Type != schema.FieldImage {
		return echo.NewHTTPError(http.StatusBadRequest, "not an image field: "+req.Field)
	}

	state := PickerIdle
	if req.Event != "" {
		from := PickerState(req.State)
		if !from.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown picker state: "+req.State)
		}
		if state, err = from.Next(PickerEvent(req.Event)); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	props := components.PickerProps{
		Field:    f.Name,
		State:    string(state),
		Accept:   f.Accept,
		Endpoint: pickerEndpoint(t.Name),
	}
	switch state {
	case PickerSuccess:
		if req.URL == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "missing uploaded url")
		}
		props.URL = req.URL
	case PickerError:
		props.Error = req.Error
		if props.Error == "" {
			props.Error = "Upload failed"
		}
	}

	body, err := h.renderer.RenderComponent(c.Request().Context(), components.Picker(props))
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, body)
}

func (h *Handler) fetch(c echo.Context, id string) (map[string]any, error) {
	ctx := c.Request().Context()
	var doc map[string]any
	if err := h.docs.Fetch(ctx, cms.DocumentQuery(id), &doc); err != nil {
		middleware.FromContext(ctx).Error("Failed to fetch document", "id", id, "error", err)
		return nil, fmt.Errorf("fetch document %s: %w", id, err)
	}
	return doc, nil
}

func (h *Handler) revalidate(c echo.Context, kind domain.Kind, id string) {
	if h.revalidator == nil {
		return
	}
	ctx := c.Request().Context()
	result, err := h.revalidator.Revalidate(ctx, kind, id)
	if err != nil {
		middleware.FromContext(ctx).Warn("Revalidation after publish failed", "type", kind, "error", err)
		return
	}
	middleware.FromContext(ctx).Info("Revalidated after publish", "type", kind, "tags", result.Tags)
}

func (h *Handler) form(c echo.Context, status int, t schema.DocumentType, id string, values map[string]string, verr *schema.ValidationError, flash view.FlashData) error {
	fields := make([]pages.StudioField, 0, len(t.Fields))
	for _, f := range t.Fields {
		field := pages.StudioField{
			Field: f,
			Label: Label(f),
			Value: values[f.Name],
		}
		if verr != nil {
			field.Error = verr.For(f.Name)
		}
		switch f.Type {
		case schema.FieldImage:
			field.Preview = ImageURL(h.images, field.Value)
		case schema.FieldReference:
			opts, err := h.options(c, f.To)
			if err != nil {
				return err
			}
			field.Options = opts
		}
		fields = append(fields, field)
	}

	title := "New " + t.Title
	if id != "" {
		title = "Edit " + t.Title
	}
	return h.page(c, status, title, flash, pages.StudioForm(pages.StudioFormData{
		Types:          schema.Types(),
		Type:           t,
		ID:             id,
		IsNew:          id == "",
		Fields:         fields,
		PickerEndpoint: pickerEndpoint(t.Name),
	}))
}

func (h *Handler) options(c echo.Context, kind domain.Kind) ([]pages.StudioOption, error) {
	target, ok := schema.Lookup(kind)
	if !ok {
		return nil, errors.New("unknown reference target: " + kind.String())
	}
	var docs []map[string]any
	if err := h.docs.Fetch(c.Request().Context(), cms.DocumentsQuery(kind), &docs); err != nil {
		return nil, fmt.Errorf("list %s documents: %w", kind, err)
	}
	opts := make([]pages.StudioOption, 0, len(docs))
	for _, doc := range docs {
		p := PreviewOf(target, nil, doc)
		opts = append(opts, pages.StudioOption{Value: p.ID, Label: p.Title})
	}
	return opts, nil
}

func (h *Handler) page(c echo.Context, status int, title string, flash view.FlashData, body gomponents.Node) error {
	return h.renderer.RenderPage(c, status, layouts.Base(layouts.Page{
		Title:  title,
		Site:   siteName,
		Flash:  flash,
		Studio: true,
	}, view.Templ(body)))
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// submitted keeps what the author typed for a re-rendered form.
func submitted(t schema.DocumentType, form url.Values) map[string]string {
	values := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		values[f.Name] = form.Get(f.Name)
	}
	return values
}
