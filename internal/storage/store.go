// Package storage holds the blob backends behind the upload bridge and the
// scoped client tokens that authorize direct uploads.
package storage

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Store reads and writes blobs through this server. Only backends whose
// uploads are received by this server implement it.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Delete(ctx context.Context, path string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
}

// UploadTarget tells the browser where and how to send the bytes.
type UploadTarget struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	PublicURL string            `json:"publicUrl"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// DirectUploader prepares uploads that bypass this server's handlers.
type DirectUploader interface {
	// UploadTarget returns the destination for one upload of path.
	// clientToken is the scoped token the browser was issued.
	UploadTarget(ctx context.Context, path, contentType, clientToken string, ttl time.Duration) (UploadTarget, error)
	// PublicURL is where the blob at path can be read once uploaded.
	PublicURL(path string) string
}

func putTarget(url, contentType string, ttl time.Duration, publicURL string) UploadTarget {
	return UploadTarget{
		URL:       url,
		Method:    http.MethodPut,
		Headers:   map[string]string{"Content-Type": contentType},
		PublicURL: publicURL,
		ExpiresAt: time.Now().Add(ttl),
	}
}
