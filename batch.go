package avatargen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Mode selects how the batch treats avatars that already exist.
type Mode string

const (
	// ModeInitial skips authors whose avatar file already exists, so the
	// batch can be re-run safely after failures.
	ModeInitial Mode = "initial"

	// ModeTargeted always regenerates, backing up the previous avatar.
	ModeTargeted Mode = "targeted"
)

// DefaultDelay is the pause between a successful generation and the next item.
const DefaultDelay = time.Second

// ItemState is the lifecycle position of one work item within a run:
// pending → skipped, or pending → generating → succeeded | failed.
type ItemState string

const (
	StatePending    ItemState = "pending"
	StateGenerating ItemState = "generating"
	StateSkipped    ItemState = "skipped"
	StateSucceeded  ItemState = "succeeded"
	StateFailed     ItemState = "failed"
)

// Outcome is the final result for one work item.
type Outcome struct {
	Name     string
	State    ItemState
	Filename string
	Backup   string // targeted mode only, empty if there was no previous avatar
	Reason   string // why the item was skipped
	Err      error
}

// ItemError pairs a failed author with the error it failed with.
type ItemError struct {
	Name string
	Err  error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// PortraitGenerator produces one avatar per work item. *PortraitClient is
// the production implementation.
type PortraitGenerator interface {
	Generate(ctx context.Context, item WorkItem) (GeneratedImage, error)
}

// RunLogger receives the human-readable progress lines of a run.
type RunLogger interface {
	Printf(format string, args ...any)
}

type discardRunLogger struct{}

func (discardRunLogger) Printf(string, ...any) {}

// Runner drives a batch: for each item it generates, persists, records and
// waits, strictly one item at a time. A failing item is recorded and the
// batch moves on.
type Runner struct {
	portraits PortraitGenerator
	storage   Storage
	manifests *ManifestStore

	runLog    RunLogger
	logger    *slog.Logger
	delay     time.Duration
	unitPrice float64

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunLogger sends progress lines to l.
func WithRunLogger(l RunLogger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.runLog = l
		}
	}
}

// WithSlogLogger sets the structured logger used for diagnostics.
func WithSlogLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDelay sets the pause after each successful item except the last.
func WithDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithUnitPrice sets the flat per-image price used for the cost estimate.
func WithUnitPrice(price float64) RunnerOption {
	return func(r *Runner) {
		r.unitPrice = price
	}
}

// WithSleeper replaces the context-aware timer used between items.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) RunnerOption {
	return func(r *Runner) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithClock replaces time.Now for manifest timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner wires a batch runner.
func NewRunner(portraits PortraitGenerator, storage Storage, manifests *ManifestStore, opts ...RunnerOption) *Runner {
	r := &Runner{
		portraits: portraits,
		storage:   storage,
		manifests: manifests,
		runLog:    discardRunLogger{},
		logger:    slog.Default(),
		delay:     DefaultDelay,
		sleep:     sleepContext,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes items in order under mode. The returned error is non-nil
// only when the run could not start (manifest unreadable) or was cancelled
// through ctx; in the latter case the partial summary is still returned.
// Individual item failures are reported in the Summary, not as an error.
func (r *Runner) Run(ctx context.Context, mode Mode, items []WorkItem) (*Summary, error) {
	if mode != ModeInitial && mode != ModeTargeted {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if len(items) == 0 {
		return nil, ErrNoWorkItems
	}
	if r.storage == nil {
		return nil, ErrStorageNotConfigured
	}

	manifest, err := r.manifests.Load()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Mode:      mode,
		Total:     len(items),
		UnitPrice: r.unitPrice,
		Started:   r.now(),
	}
	defer func() { summary.Finished = r.now() }()

	r.runLog.Printf("Starting %s run: %d author(s), manifest has %d avatar(s)", mode, len(items), len(manifest.Avatars))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return r.interrupted(summary, err)
		}

		r.runLog.Printf("[%d/%d] %s", i+1, len(items), item.Name)
		out := r.processItem(ctx, mode, item, manifest)
		if err := ctx.Err(); err != nil && out.State == StateFailed && IsInterrupted(out.Err) {
			// Cut off mid-call: the author is left for the next run, not counted as failed.
			return r.interrupted(summary, err)
		}
		summary.add(out)

		switch out.State {
		case StateSkipped:
			r.runLog.Printf("  skipped %s: %s", item.Name, out.Reason)
		case StateFailed:
			r.runLog.Printf("  FAILED %s: %v", item.Name, out.Err)
			r.logger.Warn("avatar generation failed", "author", item.Name, "error", out.Err)
		case StateSucceeded:
			if out.Backup != "" {
				r.runLog.Printf("  saved %s (previous version kept as %s)", out.Filename, out.Backup)
			} else {
				r.runLog.Printf("  saved %s", out.Filename)
			}
			if i < len(items)-1 && r.delay > 0 {
				if err := r.sleep(ctx, r.delay); err != nil {
					return r.interrupted(summary, err)
				}
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return r.interrupted(summary, err)
	}

	r.runLog.Printf("Finished %s run: %d succeeded, %d skipped, %d failed",
		mode, summary.Succeeded, summary.Skipped, summary.Failed)
	return summary, nil
}

func (r *Runner) interrupted(summary *Summary, err error) (*Summary, error) {
	summary.Interrupted = true
	r.runLog.Printf("Run interrupted after %d of %d author(s): %v", summary.Processed(), summary.Total, err)
	return summary, err
}

func (r *Runner) processItem(ctx context.Context, mode Mode, item WorkItem, manifest *Manifest) Outcome {
	filename := item.Filename()
	out := Outcome{Name: item.Name, State: StatePending, Filename: filename}

	policy := PolicyBackupFirst
	if mode == ModeInitial {
		policy = PolicyOverwrite
		exists, err := r.storage.Exists(filename)
		if err != nil {
			return out.fail(err)
		}
		if exists {
			out.State = StateSkipped
			out.Reason = "avatar already exists"
			return out
		}
	}

	out.State = StateGenerating
	start := r.now()
	img, err := r.portraits.Generate(ctx, item)
	if err != nil {
		return out.fail(err)
	}

	res, err := Persist(ctx, r.storage, filename, img, policy)
	if err != nil {
		return out.fail(fmt.Errorf("save avatar: %w", err))
	}
	out.Backup = res.Backup

	manifest.Record(item.Name, ManifestRecord{
		Filename:    filename,
		GeneratedAt: r.now().UTC(),
		Regenerated: mode == ModeTargeted,
	})
	if err := r.manifests.Save(manifest); err != nil {
		return out.fail(fmt.Errorf("avatar saved but manifest update failed: %w", err))
	}

	r.logger.Debug("avatar saved",
		"author", item.Name,
		"file", res.Path,
		"bytes", res.Size,
		"duration_ms", r.now().Sub(start).Milliseconds(),
	)
	out.State = StateSucceeded
	return out
}

func (o Outcome) fail(err error) Outcome {
	o.State = StateFailed
	o.Err = err
	return o
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsInterrupted reports whether err came from a cancelled run.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
