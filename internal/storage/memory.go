package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Memory is an in-process Backend, used by tests and by local runs without
// cloud credentials.
type Memory struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
}

func NewMemory(baseURL string) *Memory {
	return &Memory{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *Memory) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = append([]byte(nil), data...)
	m.types[bucket+"/"+key] = contentType
	return nil
}

func (m *Memory) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[bucket+"/"+key]
	return ok, nil
}

func (m *Memory) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", m.BaseURL, url.PathEscape(bucket), escapeKey(key))
}

// ContentType returns the content type recorded for an object.
func (m *Memory) ContentType(bucket, key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.types[bucket+"/"+key]
}

// Keys lists stored objects as bucket/key.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

func escapeKey(key string) string {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
