package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/handlers"
	"github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/pubsub"
	"github.com/nfrund/portfolio/internal/storage"
)

// Event types of the client upload protocol.
const (
	EventGenerateClientToken = "blob.generate-client-token"
	EventUploadCompleted     = "blob.upload-completed"
)

// Request is the body of POST /api/upload.
type Request struct {
	Type    string          `json:"type" validate:"required,oneof=blob.generate-client-token blob.upload-completed"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// TokenRequest asks for a client token for one upload.
type TokenRequest struct {
	Pathname      string `json:"pathname" validate:"required"`
	ContentType   string `json:"contentType" validate:"required"`
	ClientPayload string `json:"clientPayload,omitempty"`
	Multipart     bool   `json:"multipart,omitempty"`
}

// TokenResponse carries the client token and where to send the bytes.
type TokenResponse struct {
	Type        string               `json:"type"`
	ClientToken string               `json:"clientToken"`
	Pathname    string               `json:"pathname"`
	ExpiresAt   time.Time            `json:"expiresAt"`
	Upload      storage.UploadTarget `json:"upload"`
}

// Blob describes an uploaded blob.
type Blob struct {
	URL         string `json:"url" validate:"required,url"`
	Pathname    string `json:"pathname" validate:"required"`
	ContentType string `json:"contentType"`
}

// CompletedRequest reports a finished upload.
type CompletedRequest struct {
	Blob         Blob   `json:"blob" validate:"required"`
	TokenPayload string `json:"tokenPayload" validate:"required"`
}

// CompletedResponse acknowledges a completion.
type CompletedResponse struct {
	Type     string `json:"type"`
	Response string `json:"response"`
}

// PutResponse is the answer of the local blob endpoint.
type PutResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

var errNotConfigured = fmt.Sprintf("Server configuration error: %s not set", config.KeyBlobToken)

// Handler serves the upload bridge.
type Handler struct {
	uploader storage.DirectUploader
	blobs    storage.Store // nil unless uploads land on this server
	tokens   *storage.TokenIssuer
	policy   storage.Policy
	pub      pubsub.Publisher
}

// NewHandler creates an upload handler. blobs may be nil when uploads go
// straight to an external bucket.
func NewHandler(uploader storage.DirectUploader, blobs storage.Store, tokens *storage.TokenIssuer, policy storage.Policy, pub pubsub.Publisher) *Handler {
	return &Handler{uploader: uploader, blobs: blobs, tokens: tokens, policy: policy, pub: pub}
}

// Options answers plain OPTIONS requests; preflights are handled by CORS.
func (h *Handler) Options(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{})
}

// Upload dispatches one step of the client upload protocol.
func (h *Handler) Upload(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())

	if !h.tokens.Configured() || h.uploader == nil {
		logger.Error("Upload bridge is not configured", "key", config.KeyBlobToken)
		return handlers.JSONError(c, http.StatusInternalServerError, errNotConfigured)
	}

	var req Request
	if err := handlers.Bind(c, &req); err != nil {
		logger.Warn("Upload error", "error", err)
		return handlers.JSONError(c, http.StatusBadRequest, message(err))
	}

	var (
		resp any
		err  error
	)
	switch req.Type {
	case EventGenerateClientToken:
		resp, err = h.generate(c, req.Payload)
	case EventUploadCompleted:
		resp, err = h.completed(c, req.Payload)
	}
	if err != nil {
		logger.Warn("Upload error", "type", req.Type, "error", err)
		return handlers.JSONError(c, http.StatusBadRequest, message(err))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) generate(c echo.Context, raw json.RawMessage) (*TokenResponse, error) {
	var p TokenRequest
	if err := decode(c, raw, &p); err != nil {
		return nil, err
	}
	if !h.policy.Allows(p.ContentType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrContentTypeNotAllowed, p.ContentType)
	}

	pathname, err := h.policy.Pathname(p.Pathname)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := h.tokens.Issue(storage.UploadClaims{
		Pathname:            pathname,
		AllowedContentTypes: h.policy.AllowedContentTypes,
		MaximumSizeInBytes:  h.policy.MaxBytes,
		AddRandomSuffix:     h.policy.AddRandomSuffix,
		ClientPayload:       p.ClientPayload,
	})
	if err != nil {
		return nil, err
	}

	target, err := h.uploader.UploadTarget(c.Request().Context(), pathname, p.ContentType, token, h.tokens.TTL())
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		Type:        EventGenerateClientToken,
		ClientToken: token,
		Pathname:    pathname,
		ExpiresAt:   expiresAt,
		Upload:      target,
	}, nil
}

func (h *Handler) completed(c echo.Context, raw json.RawMessage) (*CompletedResponse, error) {
	var p CompletedRequest
	if err := decode(c, raw, &p); err != nil {
		return nil, err
	}

	claims, err := h.tokens.Verify(p.TokenPayload)
	if err != nil {
		return nil, err
	}
	if claims.Pathname != strings.TrimPrefix(p.Blob.Pathname, "/") {
		return nil, fmt.Errorf("%w: pathname mismatch", domain.ErrInvalidUploadToken)
	}

	ctx := c.Request().Context()
	middleware.FromContext(ctx).Info("Blob upload completed", "url", p.Blob.URL, "pathname", p.Blob.Pathname)

	if h.pub != nil {
		payload := pubsub.UploadCompletedPayload{
			URL:         p.Blob.URL,
			Pathname:    p.Blob.Pathname,
			ContentType: p.Blob.ContentType,
			Token:       claims.ClientPayload,
		}
		if err := pubsub.UploadCompleted.Publish(ctx, h.pub, "upload", payload); err != nil {
			middleware.FromContext(ctx).Warn("Failed to publish upload event", "error", err)
		}
	}
	return &CompletedResponse{Type: EventUploadCompleted, Response: "ok"}, nil
}

// PutBlob receives a direct upload for the local backend. The bearer token
// must cover exactly this pathname and content type.
func (h *Handler) PutBlob(c echo.Context) error {
	if !h.tokens.Configured() || h.blobs == nil {
		return handlers.JSONError(c, http.StatusInternalServerError, errNotConfigured)
	}

	token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !ok {
		return handlers.JSONError(c, http.StatusUnauthorized, "missing upload token")
	}
	claims, err := h.tokens.Verify(token)
	if err != nil {
		return handlers.JSONError(c, http.StatusUnauthorized, err.Error())
	}

	pathname, err := storage.CleanPath(c.Param("*"))
	if err != nil || pathname != claims.Pathname {
		return handlers.JSONError(c, http.StatusForbidden, "token does not cover this pathname")
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !claims.Allows(contentType) {
		return handlers.JSONError(c, http.StatusBadRequest, fmt.Sprintf("%s: %s", domain.ErrContentTypeNotAllowed, contentType))
	}

	body := c.Request().Body
	if max := claims.MaximumSizeInBytes; max > 0 {
		if c.Request().ContentLength > max {
			return handlers.JSONError(c, http.StatusRequestEntityTooLarge, "file exceeds maximum size")
		}
		body = http.MaxBytesReader(c.Response(), body, max)
	}

	ctx := c.Request().Context()
	n, err := h.blobs.Save(ctx, pathname, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = h.blobs.Delete(ctx, pathname)
			return handlers.JSONError(c, http.StatusRequestEntityTooLarge, "file exceeds maximum size")
		}
		middleware.FromContext(ctx).Error("Failed to store blob", "pathname", pathname, "error", err)
		return handlers.JSONError(c, http.StatusInternalServerError, "failed to store blob")
	}

	return c.JSON(http.StatusOK, PutResponse{
		URL:         h.uploader.PublicURL(pathname),
		Pathname:    pathname,
		ContentType: contentType,
		Size:        n,
	})
}

// GetBlob streams a stored blob.
func (h *Handler) GetBlob(c echo.Context) error {
	if h.blobs == nil {
		return echo.ErrNotFound
	}
	pathname, err := storage.CleanPath(c.Param("*"))
	if err != nil {
		return echo.ErrNotFound
	}

	rc, err := h.blobs.Get(c.Request().Context(), pathname)
	if errors.Is(err, domain.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(pathname))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.Stream(http.StatusOK, contentType, rc)
}

func decode(c echo.Context, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return c.Validate(v)
}

// message unwraps echo's HTTP errors to their message.
func message(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

