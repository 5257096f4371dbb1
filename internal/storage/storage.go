package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/nfrund/portfolio/internal/domain"
	"github.com/spf13/afero"
)

var (
	_ Store          = (*AferoStore)(nil)
	_ DirectUploader = (*AferoStore)(nil)
	_ DirectUploader = (*S3Store)(nil)
)

// AferoStore keeps blobs on an afero filesystem, the OS disk in production
// and memory in tests. Uploads go to this server's blob endpoint.
type AferoStore struct {
	fs        afero.Fs
	root      string
	uploadURL string
	publicURL string
}

// NewAferoStore creates a store rooted at root on fs. uploadURL is the
// endpoint accepting PUTs and publicURL the prefix blobs are served from.
func NewAferoStore(fs afero.Fs, root, uploadURL, publicURL string) *AferoStore {
	return &AferoStore{
		fs:        fs,
		root:      root,
		uploadURL: strings.TrimRight(uploadURL, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// CleanPath normalizes a blob path and rejects traversal outside the root.
func CleanPath(p string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(p))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.Contains(p, "..") {
		return "", fmt.Errorf("invalid blob path %q", p)
	}
	return cleaned, nil
}

func (s *AferoStore) full(p string) (string, error) {
	cleaned, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	return path.Join(s.root, cleaned), nil
}

// Save writes the content of the reader to path.
func (s *AferoStore) Save(ctx context.Context, p string, reader io.Reader) (int64, error) {
	full, err := s.full(p)
	if err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(full)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, reader)
}

// Delete removes the blob at path.
func (s *AferoStore) Delete(ctx context.Context, p string) error {
	full, err := s.full(p)
	if err != nil {
		return err
	}
	return s.fs.Remove(full)
}

// Get opens the blob at path for reading.
func (s *AferoStore) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	full, err := s.full(p)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.OpenFile(full, os.O_RDONLY, 0)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

// UploadTarget points the browser at this server's blob endpoint,
// authenticated with the client token.
func (s *AferoStore) UploadTarget(ctx context.Context, p, contentType, clientToken string, ttl time.Duration) (UploadTarget, error) {
	cleaned, err := CleanPath(p)
	if err != nil {
		return UploadTarget{}, err
	}
	target := putTarget(s.uploadURL+"/"+cleaned, contentType, ttl, s.PublicURL(cleaned))
	target.Headers["Authorization"] = "Bearer " + clientToken
	return target, nil
}

// PublicURL returns where the blob at path is served.
func (s *AferoStore) PublicURL(p string) string {
	return s.publicURL + "/" + strings.TrimPrefix(p, "/")
}
