// Package localstore serves content queries from a JSON dataset file instead
// of the hosted content lake. It evaluates the structural part of a
// cms.Query (type or id filter, order, one level of reference expansion)
// and applies studio mutations back to the file.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/spf13/afero"
)

// Document is a raw content document.
type Document = map[string]any

// Store is a dataset held in memory and persisted to a single JSON file.
type Store struct {
	fs   afero.Fs
	path string

	mu   sync.RWMutex
	docs []Document

	watcher       *fsnotify.Watcher
	watcherActive bool
}

// Open loads the dataset at path. A missing file is an empty dataset.
func Open(fs afero.Fs, path string) (*Store, error) {
	s := &Store{fs: fs, path: filepath.Clean(path)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the dataset file.
func (s *Store) Path() string {
	return s.path
}

// Reload rereads the dataset file.
func (s *Store) Reload() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.docs = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	var docs []Document
	if len(data) > 0 {
		if err := json.Unmarshal(data, &docs); err != nil {
			return fmt.Errorf("decode dataset %s: %w", s.path, err)
		}
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	return nil
}

// Fetch evaluates q against the dataset and decodes the result into out
// the same way the hosted API result would be decoded.
func (s *Store) Fetch(ctx context.Context, q cms.Query, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	result := s.evaluate(q)
	s.mu.RUnlock()

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode %s result: %w", q.Name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s result: %w", q.Name, err)
	}
	return nil
}

func (s *Store) evaluate(q cms.Query) any {
	var selected []Document
	for _, doc := range s.docs {
		if q.Type != "" && doc["_type"] != q.Type.String() {
			continue
		}
		if q.ID != "" && doc["_id"] != q.ID {
			continue
		}
		selected = append(selected, s.expand(doc, q.Expand))
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return orderOf(selected[i]) < orderOf(selected[j])
	})

	if q.Single {
		if len(selected) == 0 {
			return nil
		}
		return selected[0]
	}
	if selected == nil {
		return []Document{}
	}
	return selected
}

// expand replaces reference fields with the referenced document. A dangling
// reference becomes null.
func (s *Store) expand(doc Document, fields []string) Document {
	if len(fields) == 0 {
		return doc
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, field := range fields {
		ref, ok := out[field].(map[string]any)
		if !ok {
			continue
		}
		id, _ := ref["_ref"].(string)
		out[field] = s.find(id)
	}
	return out
}

func (s *Store) find(id string) Document {
	for _, doc := range s.docs {
		if doc["_id"] == id {
			return doc
		}
	}
	return nil
}

func orderOf(doc Document) float64 {
	switch v := doc["order"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Mutate applies mutations and persists the dataset.
func (s *Store) Mutate(ctx context.Context, mutations ...cms.Mutation) (*cms.MutateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := append([]Document(nil), s.docs...)
	result := &cms.MutateResult{}
	for _, m := range mutations {
		switch {
		case m.CreateOrReplace != nil:
			id, _ := m.CreateOrReplace["_id"].(string)
			if id == "" {
				return nil, fmt.Errorf("createOrReplace: document has no _id")
			}
			op := "create"
			replaced := false
			for i, doc := range docs {
				if doc["_id"] == id {
					docs[i] = m.CreateOrReplace
					replaced = true
					op = "update"
					break
				}
			}
			if !replaced {
				docs = append(docs, m.CreateOrReplace)
			}
			result.Results = append(result.Results, cms.MutatedResult{ID: id, Operation: op})
		case m.Delete != nil:
			for i, doc := range docs {
				if doc["_id"] == m.Delete.ID {
					docs = append(docs[:i], docs[i+1:]...)
					result.Results = append(result.Results, cms.MutatedResult{ID: m.Delete.ID, Operation: "delete"})
					break
				}
			}
		}
	}

	if err := s.persist(docs); err != nil {
		return nil, err
	}
	s.docs = docs
	return result, nil
}

func (s *Store) persist(docs []Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

// Watch reloads the dataset whenever its file changes on disk and calls
// onChange after each successful reload. It only works on the OS
// filesystem and stops when ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcherActive {
		slog.Debug("Dataset watcher already active")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}

	// Editors replace files on save, so watch the directory.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	s.watcher = watcher
	s.watcherActive = true

	go s.watchFile(ctx, watcher, onChange)

	slog.Debug("Started dataset watcher", "path", s.path)
	return nil
}

func (s *Store) watchFile(ctx context.Context, watcher *fsnotify.Watcher, onChange func()) {
	defer func() {
		watcher.Close()
		s.mu.Lock()
		s.watcher = nil
		s.watcherActive = false
		s.mu.Unlock()
		slog.Info("Dataset watcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if err := s.Reload(); err != nil {
				slog.Error("Failed to reload dataset", "path", s.path, "error", err)
				continue
			}
			slog.Info("Dataset changed, reloaded", "path", s.path)
			if onChange != nil {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Dataset watcher error", "error", err)
		}
	}
}
