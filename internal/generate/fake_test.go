package generate

import (
	"context"
	"sync"
	"time"
)

// fakeSurface scripts a chat page for tests. Replies and page text can be
// staged to appear after a number of reads, simulating a streaming reply.
type fakeSurface struct {
	mu sync.Mutex

	replies        []string
	repliesAfter   int // reads of ReplyTexts before replies appear
	pageText       string
	pageTextAfter  int
	generatingFor  int // reads of Generating that report true
	navigateErr    error
	submitErr      error
	waitInputErr   error
	hasInput       bool
	closed         bool
	submittedText  string
	replyReads     int
	pageReads      int
	generatingSeen int
}

func (f *fakeSurface) Navigate(ctx context.Context, url string) error { return f.navigateErr }

func (f *fakeSurface) HasInput(ctx context.Context) bool { return f.hasInput }

func (f *fakeSurface) WaitInput(ctx context.Context, timeout time.Duration) error {
	return f.waitInputErr
}

func (f *fakeSurface) SubmitPrompt(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submittedText = text
	return f.submitErr
}

func (f *fakeSurface) ReplyTexts(ctx context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replyReads++
	if f.replyReads <= f.repliesAfter {
		return nil
	}
	return f.replies
}

func (f *fakeSurface) PageText(ctx context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageReads++
	if f.pageReads <= f.pageTextAfter {
		return ""
	}
	return f.pageText
}

func (f *fakeSurface) Generating(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generatingSeen++
	return f.generatingSeen <= f.generatingFor
}

func (f *fakeSurface) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSurface) wasClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSurface) submitted() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submittedText
}

// testWaitConfig keeps every bound tiny so tests finish in milliseconds.
func testWaitConfig() WaitConfig {
	return WaitConfig{
		InitialGrace:           time.Millisecond,
		ReplyPollInterval:      time.Millisecond,
		ReplyPollAttempts:      5,
		CompletionPollInterval: time.Millisecond,
		CompletionPollAttempts: 5,
		SettleDelay:            time.Millisecond,
		MinReplyChars:          10,
	}
}
