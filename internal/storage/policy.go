package storage

import (
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

// AllowedImageTypes are the content types the studio may upload.
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/svg+xml",
	"image/gif",
}

// Policy constrains an upload.
type Policy struct {
	AllowedContentTypes []string
	MaxBytes            int64
	AddRandomSuffix     bool
}

// ImagePolicy is the policy for studio image uploads.
func ImagePolicy(maxBytes int64) Policy {
	return Policy{
		AllowedContentTypes: AllowedImageTypes,
		MaxBytes:            maxBytes,
		AddRandomSuffix:     true,
	}
}

// Allows reports whether contentType, ignoring parameters, is allowed.
func (p Policy) Allows(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, allowed := range p.AllowedContentTypes {
		if strings.EqualFold(mediaType, allowed) {
			return true
		}
	}
	return false
}

// Pathname returns the stored pathname for a requested one, adding a
// random suffix before the extension when the policy asks for it.
func (p Policy) Pathname(requested string) (string, error) {
	cleaned, err := CleanPath(requested)
	if err != nil {
		return "", err
	}
	if !p.AddRandomSuffix {
		return cleaned, nil
	}
	ext := path.Ext(cleaned)
	base := strings.TrimSuffix(cleaned, ext)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	return base + "-" + suffix + ext, nil
}
