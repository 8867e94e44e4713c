package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOllamaComplete(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"response":"  [1,2]  ","done":true}`)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL+"/", "")
	text, err := o.Complete(context.Background(), Request{System: "sys", Prompt: "hello", JSON: true, Temperature: 0.2})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "[1,2]" {
		t.Errorf("text = %q", text)
	}
	if got.Model != defaultOllamaModel || got.System != "sys" || got.Prompt != "hello" || got.Stream || got.Format != "json" {
		t.Errorf("request body = %+v", got)
	}
	if o.Name() != "ollama/llama3.1" {
		t.Errorf("Name = %q", o.Name())
	}
}

func TestOllamaErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "http error", status: 404, body: `{"error":"model not found"}`},
		{name: "error field", status: 200, body: `{"error":"out of memory"}`},
		{name: "empty", status: 200, body: `{"response":"   "}`, wantErr: ErrEmptyResponse},
		{name: "garbage", status: 200, body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewOllama(srv.URL, "m").Complete(context.Background(), Request{Prompt: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := WithTimeout(NewOllama(srv.URL, "m"), 50*time.Millisecond)
	start := time.Now()
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not applied, took %v", elapsed)
	}
	if c.Name() != "ollama/m" {
		t.Errorf("Name = %q", c.Name())
	}
	if WithTimeout(NewOllama(srv.URL, "m"), 0).Name() != "ollama/m" {
		t.Error("zero timeout should return the provider itself")
	}
}

func TestGeminiComplete(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"summary text"}]}}]}`)
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), GeminiConfig{APIKey: "test-key", Model: "test-model", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	text, err := g.Complete(context.Background(), Request{System: "be brief", Prompt: "hi", JSON: true})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "summary text" {
		t.Errorf("text = %q", text)
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Errorf("system instruction not sent: %v", body)
	}
	if g.Name() != "gemini/test-model" {
		t.Errorf("Name = %q", g.Name())
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), GeminiConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNewProviderSelection(t *testing.T) {
	c, err := New(context.Background(), Config{Provider: "ollama", OllamaURL: "http://localhost:11434", Timeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Name() != "ollama/llama3.1" {
		t.Errorf("Name = %q", c.Name())
	}
	if _, err := New(context.Background(), Config{Provider: "cohere"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestStripCodeFenceAndExtractJSON(t *testing.T) {
	tests := []struct {
		in, fence, json string
	}{
		{"plain", "plain", "plain"},
		{"```json\n{\"a\":1}\n```", `{"a":1}`, `{"a":1}`},
		{"Here you go:\n```\n[1, 2]\n```\nthanks", "[1, 2]", "[1, 2]"},
		{"Sure! {\"speakers\": []} hope that helps", `Sure! {"speakers": []} hope that helps`, `{"speakers": []}`},
	}
	for _, tt := range tests {
		if got := StripCodeFence(tt.in); got != tt.fence {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.fence)
		}
		if got := ExtractJSON(tt.in); got != tt.json {
			t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.json)
		}
	}
}
