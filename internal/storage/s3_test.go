package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeS3 answers path-style requests for a single bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	puts    []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		_, _ = io.Copy(io.Discard, r.Body)
		f.puts = append(f.puts, key)
		f.objects[key] = "uploaded"
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		_, _ = io.WriteString(w, body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3Backend(t *testing.T) (*S3, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]string{"bundles/ready.fcpxmld.zip": "zipdata"}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		RetryMaxAttempts: 1,
	})
	return NewS3FromClient(client, "us-east-1", ""), fake
}

func TestS3Exists(t *testing.T) {
	backend, _ := newFakeS3Backend(t)
	ctx := context.Background()

	ok, err := backend.Exists(ctx, "bundles", "ready.fcpxmld.zip")
	if err != nil || !ok {
		t.Fatalf("Exists(ready) = %v, %v", ok, err)
	}
	ok, err = backend.Exists(ctx, "bundles", "pending.fcpxmld.zip")
	if err != nil || ok {
		t.Fatalf("Exists(pending) = %v, %v; want false, nil", ok, err)
	}
}

func TestS3GetAndPut(t *testing.T) {
	backend, fake := newFakeS3Backend(t)
	ctx := context.Background()

	data, err := backend.Get(ctx, "bundles", "ready.fcpxmld.zip")
	if err != nil || string(data) != "zipdata" {
		t.Fatalf("Get = %q, %v", data, err)
	}
	if _, err := backend.Get(ctx, "bundles", "nope.zip"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing err = %v, want ErrNotFound", err)
	}

	if err := backend.Put(ctx, "videos", "clip.mp4", []byte("video"), "video/mp4"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if len(fake.puts) != 1 || fake.puts[0] != "videos/clip.mp4" {
		t.Errorf("puts = %v", fake.puts)
	}
}

func TestS3PublicURL(t *testing.T) {
	backend := NewS3FromClient(nil, "ap-northeast-1", "")
	if got := backend.PublicURL("fcpxml", "a b.fcpxmld.zip"); got != "https://fcpxml.s3.ap-northeast-1.amazonaws.com/a%20b.fcpxmld.zip" {
		t.Errorf("PublicURL = %q", got)
	}
	minio := NewS3FromClient(nil, "us-east-1", "http://localhost:9000")
	if got := minio.PublicURL("videos", "x.mp4"); got != "http://localhost:9000/videos/x.mp4" {
		t.Errorf("PublicURL = %q", got)
	}
}
