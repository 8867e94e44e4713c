// Package storage persists pipeline inputs and artifacts in object storage.
// Each content category is routed to a bucket on one backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Category selects the bucket an object belongs to.
type Category string

const (
	CategoryVideo      Category = "video"
	CategoryTranscript Category = "transcript"
	CategoryStylized   Category = "stylized"
	CategorySubtitle   Category = "subtitle"
	CategoryProject    Category = "project"
	// CategoryBundle holds the <name>.fcpxmld.zip bundles clients poll for.
	CategoryBundle Category = "bundle"
)

var (
	ErrNotFound        = errors.New("storage: object not found")
	ErrUnknownCategory = errors.New("storage: no backend for category")
	ErrInvalidKey      = errors.New("storage: invalid object key")
)

// Backend is a bucket-addressed object store.
type Backend interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Exists(ctx context.Context, bucket, key string) (bool, error)
	PublicURL(bucket, key string) string
}

// ObjectStore is the category-addressed view used by handlers and stages.
type ObjectStore interface {
	// Put stores data and returns its public URL.
	Put(ctx context.Context, cat Category, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, cat Category, key string) ([]byte, error)
	Exists(ctx context.Context, cat Category, key string) (bool, error)
	URL(cat Category, key string) string
}

type route struct {
	backend Backend
	bucket  string
}

// Mux routes categories to backends.
type Mux struct {
	routes map[Category]route
}

func NewMux() *Mux {
	return &Mux{routes: make(map[Category]route)}
}

// Route assigns a category to bucket on backend, replacing any earlier route.
func (m *Mux) Route(cat Category, backend Backend, bucket string) *Mux {
	m.routes[cat] = route{backend: backend, bucket: bucket}
	return m
}

// Bucket reports the bucket a category is routed to.
func (m *Mux) Bucket(cat Category) (string, bool) {
	r, ok := m.routes[cat]
	return r.bucket, ok
}

func (m *Mux) lookup(cat Category, key string) (route, error) {
	r, ok := m.routes[cat]
	if !ok {
		return route{}, fmt.Errorf("%w %q", ErrUnknownCategory, cat)
	}
	if err := ValidateKey(key); err != nil {
		return route{}, err
	}
	return r, nil
}

func (m *Mux) Put(ctx context.Context, cat Category, key string, data []byte, contentType string) (string, error) {
	r, err := m.lookup(cat, key)
	if err != nil {
		return "", err
	}
	if err := r.backend.Put(ctx, r.bucket, key, data, contentType); err != nil {
		return "", fmt.Errorf("put %s/%s: %w", r.bucket, key, err)
	}
	return r.backend.PublicURL(r.bucket, key), nil
}

func (m *Mux) Get(ctx context.Context, cat Category, key string) ([]byte, error) {
	r, err := m.lookup(cat, key)
	if err != nil {
		return nil, err
	}
	data, err := r.backend.Get(ctx, r.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", r.bucket, key, err)
	}
	return data, nil
}

func (m *Mux) Exists(ctx context.Context, cat Category, key string) (bool, error) {
	r, err := m.lookup(cat, key)
	if err != nil {
		return false, err
	}
	ok, err := r.backend.Exists(ctx, r.bucket, key)
	if err != nil {
		return false, fmt.Errorf("head %s/%s: %w", r.bucket, key, err)
	}
	return ok, nil
}

func (m *Mux) URL(cat Category, key string) string {
	r, ok := m.routes[cat]
	if !ok {
		return ""
	}
	return r.backend.PublicURL(r.bucket, key)
}

// ValidateKey rejects empty keys, absolute paths and parent directory segments.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." {
			return fmt.Errorf("%w %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// CategoryForContentType picks the category an uploaded file is stored in.
func CategoryForContentType(contentType string) Category {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case strings.HasPrefix(ct, "video/"), strings.HasPrefix(ct, "audio/"):
		return CategoryVideo
	case ct == "application/json", ct == "text/plain":
		return CategoryTranscript
	case strings.Contains(ct, "xml"), ct == "application/zip":
		return CategoryProject
	default:
		return CategoryVideo
	}
}

// ContentTypeForKey guesses the content type from the key's extension.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".json":
		return "application/json"
	case ".fcpxml", ".xml":
		return "application/xml"
	case ".srt":
		return "application/x-subrip"
	case ".zip":
		return "application/zip"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	default:
		return "application/octet-stream"
	}
}
