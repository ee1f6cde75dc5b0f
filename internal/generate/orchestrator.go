package generate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"copyforge/internal/content"
)

// Settings carries the per-run tunables the orchestrator needs. A Settings
// value is read once at the start of each run, so hot-reloaded configuration
// takes effect on the next request without racing an in-flight one.
type Settings struct {
	// ChatURL is the conversational page to drive.
	ChatURL string

	// SignInGrace is how long to wait for a manual sign-in when the input
	// affordance is absent after navigation. Sign-in is never verified; after
	// the grace period the run proceeds regardless.
	SignInGrace time.Duration

	// PostLoginSettle is the short pause taken when the input is already
	// present, letting the page finish rendering.
	PostLoginSettle time.Duration

	// InputWait bounds the final wait for the input affordance before
	// submission.
	InputWait time.Duration

	// Wait bounds reply acquisition.
	Wait WaitConfig
}

// Orchestrator runs one generation end to end: open a fresh surface, navigate,
// submit the built prompt, wait out the reply, parse and assemble. It is not
// re-entrant; callers serialize runs (the HTTP layer holds a semaphore of one).
type Orchestrator struct {
	opener    SurfaceOpener
	settings  func() Settings
	snapshots *Snapshots
	log       *zap.Logger
}

// NewOrchestrator wires an orchestrator. settings is called once per run so
// reloaded configuration applies to subsequent requests.
func NewOrchestrator(opener SurfaceOpener, settings func() Settings, snapshots *Snapshots, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		opener:    opener,
		settings:  settings,
		snapshots: snapshots,
		log:       log,
	}
}

// Generate produces one batch of copy for req. Surface errors after the
// session opens are absorbed into a failure-flagged envelope; the envelope is
// always well formed with every list padded to its requested count. Only a
// failure to open the surface at all returns a non-nil error.
func (o *Orchestrator) Generate(ctx context.Context, req content.GenerationRequest) (content.GenerationResult, error) {
	req.ApplyDefaults()
	set := o.settings()

	prompt := content.BuildPrompt(req)
	o.snapshots.SavePrompt(prompt)
	o.log.Info("generation started",
		zap.Int("title_count", req.TitleCount),
		zap.Int("desc_count", req.DescCount),
		zap.Int("bullet_count", req.BulletCount),
		zap.Int("prompt_len", len(prompt)))

	surface, err := o.opener.Open(ctx)
	if err != nil {
		o.log.Error("surface open failed", zap.Error(err))
		return failure(req, err), fmt.Errorf("opening surface: %w", err)
	}
	defer func() {
		if cerr := surface.Close(); cerr != nil {
			o.log.Warn("surface close failed", zap.Error(cerr))
		}
	}()

	raw, err := o.acquire(ctx, surface, set, prompt)
	if err != nil {
		o.log.Error("generation run failed", zap.Error(err))
		return failure(req, err), nil
	}

	cleaned := content.Clean(raw)
	o.snapshots.SaveResponse(cleaned)
	if cleaned == "" {
		err := fmt.Errorf("no usable reply text extracted")
		o.log.Error("generation run failed", zap.Error(err))
		return failure(req, err), nil
	}

	titles, descs, bullets := content.ParseSections(cleaned, req.TitleCount, req.DescCount, req.BulletCount)
	res := content.Assemble(titles, descs, bullets, req)
	if !res.Success {
		res.Error = "no sections parsed from reply"
	}
	o.log.Info("generation finished",
		zap.Bool("success", res.Success),
		zap.Int("titles", len(titles)),
		zap.Int("descriptions", len(descs)),
		zap.Int("bullets", len(bullets)))
	return res, nil
}

// acquire drives the surface through navigation, sign-in grace, submission,
// and reply waiting, returning the raw extracted text.
func (o *Orchestrator) acquire(ctx context.Context, s Surface, set Settings, prompt string) (string, error) {
	if err := s.Navigate(ctx, set.ChatURL); err != nil {
		return "", fmt.Errorf("navigating to chat page: %w", err)
	}

	// Sign-in cannot be verified from out here. With the input already
	// present we take a short settle; otherwise we give the operator the
	// grace period and proceed either way.
	if s.HasInput(ctx) {
		o.log.Info("input present, page ready")
		sleep(ctx, set.PostLoginSettle)
	} else {
		o.log.Warn("input not found, waiting out sign-in grace",
			zap.Duration("grace", set.SignInGrace))
		sleep(ctx, set.SignInGrace)
	}

	if err := s.WaitInput(ctx, set.InputWait); err != nil {
		return "", fmt.Errorf("waiting for input field: %w", err)
	}
	if err := s.SubmitPrompt(ctx, prompt); err != nil {
		return "", fmt.Errorf("submitting prompt: %w", err)
	}
	o.log.Info("prompt submitted, awaiting reply")

	return NewWaiter(set.Wait, o.log).Await(ctx, s), nil
}

// failure builds the failure envelope: placeholder-padded lists at the
// requested counts with the error message attached.
func failure(req content.GenerationRequest, err error) content.GenerationResult {
	res := content.Assemble(nil, nil, nil, req)
	res.Error = err.Error()
	return res
}
