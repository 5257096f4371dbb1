package cms

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nfrund/portfolio/internal/domain"
)

// ImageCDN is the root of the image pipeline.
const ImageCDN = "https://cdn.sanity.io/images"

// ImageURLBuilder resolves image values to absolute URLs for one dataset.
type ImageURLBuilder struct {
	ProjectID string
	Dataset   string
	BaseURL   string
}

// NewImageURLBuilder returns a builder for projectID/dataset.
func NewImageURLBuilder(projectID, dataset string) *ImageURLBuilder {
	return &ImageURLBuilder{ProjectID: projectID, Dataset: dataset, BaseURL: ImageCDN}
}

// URL resolves img. It never fails: anything it cannot resolve becomes "".
// An asset URL (images uploaded through the blob bridge) is returned as is.
func (b *ImageURLBuilder) URL(img *domain.Image) string {
	if img.IsZero() {
		return ""
	}
	if img.Asset.URL != "" {
		return img.Asset.URL
	}

	ref, ok := parseAssetRef(img.Asset.Ref)
	if !ok {
		return ""
	}

	u := fmt.Sprintf("%s/%s/%s/%s-%dx%d.%s", b.BaseURL, b.ProjectID, b.Dataset, ref.id, ref.width, ref.height, ref.format)
	if rect, ok := cropRect(img.Crop, ref.width, ref.height); ok {
		u += "?rect=" + rect
	}
	return u
}

type assetRef struct {
	id     string
	width  int
	height int
	format string
}

// parseAssetRef splits "image-<id>-<w>x<h>-<format>".
func parseAssetRef(ref string) (assetRef, bool) {
	rest, ok := strings.CutPrefix(ref, "image-")
	if !ok {
		return assetRef{}, false
	}
	parts := strings.Split(rest, "-")
	if len(parts) < 3 {
		return assetRef{}, false
	}

	format := parts[len(parts)-1]
	w, h, ok := strings.Cut(parts[len(parts)-2], "x")
	if !ok {
		return assetRef{}, false
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil || width <= 0 || height <= 0 || format == "" {
		return assetRef{}, false
	}

	id := strings.Join(parts[:len(parts)-2], "-")
	if id == "" {
		return assetRef{}, false
	}
	return assetRef{id: id, width: width, height: height, format: format}, true
}

func cropRect(c *domain.Crop, width, height int) (string, bool) {
	if c == nil || (c.Left == 0 && c.Right == 0 && c.Top == 0 && c.Bottom == 0) {
		return "", false
	}
	w, h := float64(width), float64(height)
	left := math.Round(c.Left * w)
	top := math.Round(c.Top * h)
	cw := math.Round(w - (c.Left+c.Right)*w)
	ch := math.Round(h - (c.Top+c.Bottom)*h)
	if cw <= 0 || ch <= 0 {
		return "", false
	}
	return fmt.Sprintf("%d,%d,%d,%d", int(left), int(top), int(cw), int(ch)), true
}
