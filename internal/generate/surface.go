// Package generate sequences one content-generation run against an external
// chat surface: submit the instruction prompt, wait out the streamed reply,
// clean and parse it, and assemble the response envelope.
package generate

import (
	"context"
	"time"
)

// Surface is the external conversational page being driven. It is untrusted:
// every read may return stale, partial, or empty data, and callers must treat
// "not there yet" as a normal answer. A rod-backed implementation lives in
// internal/browser; tests use scripted fakes.
type Surface interface {
	// Navigate loads the chat URL.
	Navigate(ctx context.Context, url string) error

	// HasInput reports whether the interactive input affordance is present
	// right now, without waiting.
	HasInput(ctx context.Context) bool

	// WaitInput blocks until the input affordance appears or the timeout
	// elapses.
	WaitInput(ctx context.Context, timeout time.Duration) error

	// SubmitPrompt injects the text into the input and submits it.
	SubmitPrompt(ctx context.Context, text string) error

	// ReplyTexts returns the visible text of each reply element currently on
	// the surface, oldest first. Empty when no reply has materialized.
	ReplyTexts(ctx context.Context) []string

	// PageText returns the full visible text of the surface.
	PageText(ctx context.Context) string

	// Generating reports whether the surface still shows an in-progress
	// indicator (a visible stop affordance).
	Generating(ctx context.Context) bool

	// Close releases the surface. Safe to call after partial failure.
	Close() error
}

// SurfaceOpener produces a fresh, exclusively owned Surface for one
// orchestration run.
type SurfaceOpener interface {
	Open(ctx context.Context) (Surface, error)
}

// OpenerFunc adapts a function to the SurfaceOpener interface.
type OpenerFunc func(ctx context.Context) (Surface, error)

// Open implements SurfaceOpener.
func (f OpenerFunc) Open(ctx context.Context) (Surface, error) { return f(ctx) }
