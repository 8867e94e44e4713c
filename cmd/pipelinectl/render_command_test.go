package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"subtitleforge/handlers"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderCommandFiltersAndReportsSkippedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.txt")
	if err := os.WriteFile(path, []byte("00 hello there\n05 goodbye world\nnot-a-stamp text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := runCLI(t, "", "render", path, "--filter", "world")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(stdout, "<fcpxml") || !strings.Contains(stdout, "hello there") {
		t.Errorf("expected FCPXML with the kept caption, got:\n%s", stdout)
	}
	if strings.Contains(stdout, "goodbye world") {
		t.Errorf("filtered caption rendered:\n%s", stdout)
	}
	if !strings.Contains(stderr, "line 3 skipped") {
		t.Errorf("stderr = %q, want the skipped line reported", stderr)
	}
}

func TestRenderCommandSRTFromStdin(t *testing.T) {
	stdout, _, err := runCLI(t, "00 first\n05 second\n", "render", "-", "--software", "premiere")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "1\n00:00:00,000 --> 00:00:05,000\nfirst") {
		t.Errorf("unexpected SRT:\n%s", stdout)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "unknown software", stdin: "00 hi\n", args: []string{"render", "-", "--software", "avid"}, want: "unknown software"},
		{name: "everything filtered", stdin: "00 hi\n", args: []string{"render", "-", "--filter", "hi"}, want: "no captions left"},
		{name: "missing file", args: []string{"render", filepath.Join(t.TempDir(), "nope.txt")}, want: "read transcript"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.stdin, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestWaitCommandPollsUntilReady(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fileName") != "clip.mp4" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		n := calls.Add(1)
		resp := handlers.CheckResponse{Exists: n >= 2}
		if resp.Exists {
			resp.URL = "https://cdn.example/clip.mp4.fcpxmld.zip"
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	stdout, _, err := runCLI(t, "", "wait", "clip.mp4", "--server", srv.URL, "--interval", "10ms", "--timeout", (5 * time.Second).String())
	if err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "https://cdn.example/clip.mp4.fcpxmld.zip" {
		t.Errorf("stdout = %q", stdout)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestWaitCommandStopsOnBadName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, _, err := runCLI(t, "", "wait", "../etc", "--server", srv.URL, "--interval", "10ms", "--timeout", "5s")
	if err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("err = %v, want rejected file name", err)
	}
}
