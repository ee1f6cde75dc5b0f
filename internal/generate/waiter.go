package generate

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// WaitConfig bounds every phase of reply acquisition. The surface's latency
// is outside this system's control, so none of these are compiled-in
// constants; they come from configuration and may be retuned between runs.
type WaitConfig struct {
	// InitialGrace is slept after submission before checking anything.
	InitialGrace time.Duration

	// ReplyPollInterval/ReplyPollAttempts bound the wait for a reply element
	// or the TITLES: marker to show up.
	ReplyPollInterval time.Duration
	ReplyPollAttempts int

	// CompletionPollInterval/CompletionPollAttempts bound the wait for the
	// in-progress indicator to disappear.
	CompletionPollInterval time.Duration
	CompletionPollAttempts int

	// SettleDelay is slept after the completion signal so trailing DOM
	// mutations finish before extraction.
	SettleDelay time.Duration

	// MinReplyChars is the sanity threshold: extracted text at or below this
	// length counts as not found and the next fallback is tried.
	MinReplyChars int
}

// Waiter watches a Surface until a structured reply is plausibly complete,
// then extracts the best available text. It never fails: an exhausted budget
// degrades to whatever text is on the surface, possibly none, and the caller
// treats a zero-item outcome as partial success.
type Waiter struct {
	cfg WaitConfig
	log *zap.Logger
}

// NewWaiter returns a Waiter with the given bounds.
func NewWaiter(cfg WaitConfig, log *zap.Logger) *Waiter {
	return &Waiter{cfg: cfg, log: log}
}

// Await blocks until the reply looks complete or every budget is spent, then
// returns the extracted raw text. Empty means nothing usable appeared.
func (w *Waiter) Await(ctx context.Context, s Surface) string {
	sleep(ctx, w.cfg.InitialGrace)

	found := poll(ctx, w.cfg.ReplyPollInterval, w.cfg.ReplyPollAttempts, func() bool {
		if len(s.ReplyTexts(ctx)) > 0 {
			return true
		}
		return strings.Contains(s.PageText(ctx), "TITLES:")
	})
	if !found {
		// Proceed anyway: the cleaner and parser tolerate partial or empty
		// input, and a zero-item result is a partial success, not an error.
		w.log.Warn("reply poll budget exhausted, extracting whatever is present",
			zap.Int("attempts", w.cfg.ReplyPollAttempts))
	}

	done := poll(ctx, w.cfg.CompletionPollInterval, w.cfg.CompletionPollAttempts, func() bool {
		return !s.Generating(ctx)
	})
	if !done {
		w.log.Warn("completion indicator never cleared, proceeding after bound")
	}

	sleep(ctx, w.cfg.SettleDelay)

	return w.extract(ctx, s)
}

// extract walks the fallback chain: first reply element, last reply element,
// page text sliced from the structural marker, then the raw page text. The
// first candidate longer than the sanity threshold wins.
func (w *Waiter) extract(ctx context.Context, s Surface) string {
	replies := s.ReplyTexts(ctx)
	if len(replies) > 0 {
		if text := replies[0]; w.usable(text) {
			return text
		}
		if text := replies[len(replies)-1]; w.usable(text) {
			return text
		}
	}

	pageText := s.PageText(ctx)
	if idx := strings.Index(pageText, "TITLES:"); idx != -1 {
		if text := pageText[idx:]; w.usable(text) {
			return text
		}
	}
	if w.usable(pageText) {
		return pageText
	}

	w.log.Warn("no extraction fallback produced usable text",
		zap.Int("reply_elements", len(replies)),
		zap.Int("page_text_len", len(pageText)))
	return ""
}

func (w *Waiter) usable(text string) bool {
	return len(strings.TrimSpace(text)) > w.cfg.MinReplyChars
}
