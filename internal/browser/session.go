// Package browser drives the Gemini chat page through a real Chrome instance
// using rod. One Session wraps one browser process and one page; the caller
// owns it exclusively and closes it when the run ends.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Selectors for the chat page DOM. The page is an external product and these
// rot when it changes; they are grouped here so a breakage is a one-file fix.
const (
	inputSelector      = "div[contenteditable='true']"
	stopButtonSelector = "button[aria-label*='Stop']"
)

// replySelectors are tried in order; the first one with any matches wins.
var replySelectors = []string{
	"[data-message-author-role='model']",
	"model-response",
	"[class*='model-response']",
}

// Options configures a Chrome launch.
type Options struct {
	// ProfileDir is the persistent user-data directory. Sign-in credentials
	// live here and must survive restarts, so it is never a temp dir.
	ProfileDir string

	Headless bool

	// NavTimeout bounds page navigation.
	NavTimeout time.Duration
}

// Session is one live Chrome process with a single page attached.
type Session struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	opts     Options
	log      *zap.Logger
}

// Open launches Chrome and attaches a blank page. The preferred launch hides
// the automation fingerprint; if it fails (typically sandbox restrictions in
// containers), one retry adds --no-sandbox. Both failing propagates the error.
func Open(ctx context.Context, opts Options, log *zap.Logger) (*Session, error) {
	l := preferredLauncher(opts)
	controlURL, err := l.Launch()
	if err != nil {
		log.Warn("preferred chrome launch failed, retrying with fallback flags", zap.Error(err))
		l = fallbackLauncher(opts)
		alt, altErr := l.Launch()
		if altErr != nil {
			return nil, fmt.Errorf("launch chrome: %w (fallback: %v)", err, altErr)
		}
		controlURL = alt
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("create page: %w", err)
	}

	log.Info("chrome session opened",
		zap.String("profile_dir", opts.ProfileDir),
		zap.Bool("headless", opts.Headless))
	return &Session{browser: b, page: page, launcher: l, opts: opts, log: log}, nil
}

func preferredLauncher(opts Options) *launcher.Launcher {
	return launcher.New().
		UserDataDir(opts.ProfileDir).
		Headless(opts.Headless).
		Set("disable-blink-features", "AutomationControlled")
}

func fallbackLauncher(opts Options) *launcher.Launcher {
	return launcher.New().
		UserDataDir(opts.ProfileDir).
		Headless(opts.Headless).
		Set("disable-blink-features", "AutomationControlled").
		NoSandbox(true)
}

// Navigate loads url and waits for the load event within the nav timeout.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx).Timeout(s.opts.NavTimeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		// SPA pages often stall the load event; the caller's polls cover it.
		s.log.Warn("load event not observed, continuing", zap.Error(err))
	}
	return nil
}

// HasInput reports whether the prompt input is present right now.
func (s *Session) HasInput(ctx context.Context) bool {
	has, _, err := s.page.Context(ctx).Has(inputSelector)
	return err == nil && has
}

// WaitInput blocks until the prompt input appears or timeout elapses.
func (s *Session) WaitInput(ctx context.Context, timeout time.Duration) error {
	_, err := s.page.Context(ctx).Timeout(timeout).Element(inputSelector)
	if err != nil {
		return fmt.Errorf("input field not found: %w", err)
	}
	return nil
}

// SubmitPrompt puts text into the contenteditable input and presses Enter.
// The text is set through JS with an input event so the page's framework sees
// it; typing it key by key would take minutes on a long prompt.
func (s *Session) SubmitPrompt(ctx context.Context, text string) error {
	page := s.page.Context(ctx)

	el, err := page.Element(inputSelector)
	if err != nil {
		return fmt.Errorf("locate input field: %w", err)
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("focus input field: %w", err)
	}

	_, err = el.Eval(`(text) => {
		this.innerText = text;
		this.dispatchEvent(new Event('input', { bubbles: true }));
		const range = document.createRange();
		range.selectNodeContents(this);
		range.collapse(false);
		const sel = window.getSelection();
		sel.removeAllRanges();
		sel.addRange(range);
	}`, text)
	if err != nil {
		return fmt.Errorf("set input text: %w", err)
	}

	if err := page.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	return nil
}

// ReplyTexts returns the visible text of each reply element, trying the known
// selectors in order and using the first that matches anything.
func (s *Session) ReplyTexts(ctx context.Context) []string {
	page := s.page.Context(ctx)
	for _, sel := range replySelectors {
		els, err := page.Elements(sel)
		if err != nil || len(els) == 0 {
			continue
		}
		texts := make([]string, 0, len(els))
		for _, el := range els {
			text, err := el.Text()
			if err != nil {
				continue
			}
			texts = append(texts, text)
		}
		if len(texts) > 0 {
			return texts
		}
	}
	return nil
}

// PageText returns the full visible text of the document body.
func (s *Session) PageText(ctx context.Context) string {
	obj, err := s.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      `() => document.body.innerText`,
		ByValue: true,
	})
	if err != nil {
		s.log.Debug("page text read failed", zap.Error(err))
		return ""
	}
	return obj.Value.Str()
}

// Generating reports whether a visible stop button indicates a reply is still
// streaming.
func (s *Session) Generating(ctx context.Context) bool {
	has, _, err := s.page.Context(ctx).Has(stopButtonSelector)
	return err == nil && has
}

// Close releases the page, the browser connection, and the Chrome process.
// The launcher is killed rather than cleaned up so the profile directory and
// its sign-in state survive.
func (s *Session) Close() error {
	if s.page != nil {
		_ = s.page.Close()
	}
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	s.log.Info("chrome session closed")
	return err
}
