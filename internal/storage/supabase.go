package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// Supabase is a Backend on Supabase Storage. The storage-go client does not
// take a context, so ctx is only checked before each call.
type Supabase struct {
	client *storage_go.Client
}

func NewSupabase(client *storage_go.Client) *Supabase {
	return &Supabase{client: client}
}

func (s *Supabase) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	upsert := true
	opts := storage_go.FileOptions{Upsert: &upsert}
	if contentType != "" {
		opts.ContentType = &contentType
	}
	if _, err := s.client.UploadFile(bucket, key, bytes.NewReader(data), opts); err != nil {
		return err
	}
	return nil
}

func (s *Supabase) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ok, err := s.Exists(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	data, err := s.client.DownloadFile(bucket, key)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	return data, nil
}

// listPageSize is the page size for object listings.
const listPageSize = 1000

// Exists pages through the key's directory looking for its base name.
func (s *Supabase) Exists(ctx context.Context, bucket, key string) (bool, error) {
	dir, name := path.Split(key)
	prefix := strings.TrimSuffix(dir, "/")
	for offset := 0; ; offset += listPageSize {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		files, err := s.client.ListFiles(bucket, prefix, storage_go.FileSearchOptions{
			Limit:         listPageSize,
			Offset:        offset,
			SortByOptions: storage_go.SortBy{Column: "name", Order: "asc"},
		})
		if err != nil {
			return false, err
		}
		for _, f := range files {
			if f.Name == name {
				return true, nil
			}
		}
		if len(files) < listPageSize {
			return false, nil
		}
	}
}

func (s *Supabase) PublicURL(bucket, key string) string {
	return s.client.GetPublicUrl(bucket, key).SignedURL
}
