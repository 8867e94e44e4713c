// Package aiclient talks to the text-completion models behind the pipeline
// stages.
package aiclient

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrEmptyResponse is returned when a model answers with no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Request is a single-turn completion.
type Request struct {
	System string
	Prompt string
	// JSON asks the provider for a JSON-only answer where it supports that.
	JSON        bool
	Temperature float32
}

// Completer is a text-completion model.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Config selects and configures a provider.
type Config struct {
	Provider    string // "gemini" or "ollama"
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
	Timeout     time.Duration
}

// New builds the configured provider, bounded by cfg.Timeout per call.
func New(ctx context.Context, cfg Config) (Completer, error) {
	var (
		c   Completer
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "gemini", "":
		c, err = NewGemini(ctx, GeminiConfig{APIKey: cfg.GeminiKey, Model: cfg.GeminiModel})
	case "ollama":
		c = NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(c, cfg.Timeout), nil
}

type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

// WithTimeout bounds every call to c by d. A non-positive d returns c.
func WithTimeout(c Completer, d time.Duration) Completer {
	if d <= 0 {
		return c
	}
	return &timeoutCompleter{next: c, timeout: d}
}

func (t *timeoutCompleter) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, req)
}

func (t *timeoutCompleter) Name() string { return t.next.Name() }

var codeFence = regexp.MustCompile("(?s)```[^\\n]*\\n(.*?)\\n?```")

// StripCodeFence returns the body of the first fenced block in raw, or raw
// trimmed when it has none.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}

// ExtractJSON returns the outermost JSON object or array in a model answer,
// tolerating code fences and surrounding prose.
func ExtractJSON(raw string) string {
	s := StripCodeFence(raw)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}
