package revalidate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/handlers"
	"github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/revalidation"
	"github.com/nfrund/portfolio/internal/webhook"
)

// maxBody bounds the webhook body; the projection is two short fields.
const maxBody = 1 << 20

// Handler serves the webhook.
type Handler struct {
	revalidator *revalidation.Service
	secret      string
}

// NewHandler creates a webhook handler verifying with secret.
func NewHandler(r *revalidation.Service, secret string) *Handler {
	return &Handler{revalidator: r, secret: secret}
}

// Revalidate verifies the signed notification and invalidates the tags of
// the changed document's kind.
func (h *Handler) Revalidate(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBody))
	if err != nil {
		logger.Error("Webhook error", "error", err)
		return handlers.JSONError(c, http.StatusInternalServerError, err.Error())
	}

	if err := webhook.Verify(body, c.Request().Header.Get(webhook.SignatureHeader), h.secret); err != nil {
		logger.Warn("Rejected webhook", "error", err)
		return handlers.JSONError(c, http.StatusUnauthorized, "Invalid signature")
	}

	var payload webhook.Payload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			logger.Error("Webhook error", "error", err)
			return handlers.JSONError(c, http.StatusInternalServerError, err.Error())
		}
	}

	result, err := h.revalidator.Revalidate(ctx, domain.Kind(payload.Type), payload.ID)
	switch {
	case errors.Is(err, domain.ErrMissingDocumentType):
		return handlers.JSONError(c, http.StatusBadRequest, "Missing document type")
	case err != nil:
		logger.Error("Webhook error", "type", payload.Type, "id", payload.ID, "error", err)
		return handlers.JSONError(c, http.StatusInternalServerError, err.Error())
	}

	logger.Info("Revalidated content",
		"type", payload.Type,
		"id", payload.ID,
		"revalidated", result.Revalidated,
		"tags", result.Tags,
		"invalidated", result.Invalidated,
	)
	return c.JSON(http.StatusOK, result)
}
