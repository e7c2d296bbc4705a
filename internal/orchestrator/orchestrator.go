package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/specialistvlad/releasegrid/internal/ledger"
	"github.com/specialistvlad/releasegrid/internal/target"
)

var (
	// ErrAlreadyPublished rejects a publish request for a published version.
	ErrAlreadyPublished = errors.New("version is already published")
	// ErrBuildsFailed is returned when at least one target is not Success at
	// the end of the run.
	ErrBuildsFailed = errors.New("one or more builds failed")
	// ErrSpawn is returned when the executor cannot start a build.
	ErrSpawn = errors.New("failed to start build")
	// ErrPackaging is returned when a successful build could not be packaged.
	ErrPackaging = errors.New("failed to package build")
	// ErrPublish wraps a publisher failure.
	ErrPublish = errors.New("failed to publish release")
	// ErrNothingToPublish rejects publishing an empty target list.
	ErrNothingToPublish = errors.New("no targets to publish")
	// ErrNoPublisher rejects a publish request when no publisher is configured.
	ErrNoPublisher = errors.New("publish requested but no publisher configured")
)

// RunOptions parameterises a single run.
type RunOptions struct {
	RunID        string
	Version      string
	ForceCompile bool
	Publish      bool
}

// Orchestrator runs releases against a ledger. It is not safe for concurrent
// runs; the ledger itself may be read concurrently.
type Orchestrator struct {
	ledger    *ledger.Ledger
	executor  Executor
	packager  Packager
	publisher Publisher
	notifier  Notifier
}

// Option configures optional collaborators.
type Option func(*Orchestrator)

// WithPackager packages every successful build.
func WithPackager(p Packager) Option { return func(o *Orchestrator) { o.packager = p } }

// WithPublisher sets the action run for publish requests.
func WithPublisher(p Publisher) Option { return func(o *Orchestrator) { o.publisher = p } }

// WithNotifier reports progress events.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.notifier = n
		}
	}
}

// New creates an Orchestrator. The ledger is expected to be read already.
func New(l *ledger.Ledger, exec Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ledger:   l,
		executor: exec,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes targets in order for opts.Version. Every target is attempted
// even when an earlier one fails; the returned error is non-nil whenever any
// target ends up not Success, a successful build could not be packaged, or
// publishing was requested and did not happen. The report is returned in all
// cases except rejected publish requests.
func (o *Orchestrator) Run(ctx context.Context, targets []*target.Target, opts RunOptions) (*Report, error) {
	ctx = ctxlog.With(ctx, "version", opts.Version)
	logger := ctxlog.FromContext(ctx)

	if opts.Publish {
		if err := o.checkPublishable(targets, opts.Version); err != nil {
			return nil, err
		}
	}

	report := &Report{RunID: opts.RunID, Version: opts.Version}
	o.notify(ctx, opts, Event{Kind: RunStarted})

	ids := target.IDs(targets)
	report.Pruned = o.ledger.ClearMissingTargets(opts.Version, ids)
	if len(report.Pruned) > 0 {
		logger.Info("Pruned stale ledger entries.", "build_ids", report.Pruned)
	}
	if err := o.ledger.Save(); err != nil {
		return report, err
	}

	var errs []error
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return report, errors.Join(append(errs, err)...)
		}
		if err := o.runTarget(ctx, t, opts, report); err != nil {
			if errors.Is(err, ErrPackaging) {
				errs = append(errs, err)
				continue
			}
			return report, errors.Join(append(errs, err)...)
		}
	}

	if !o.ledger.AllClear(opts.Version) {
		errs = append(errs, fmt.Errorf("%w: %v", ErrBuildsFailed, report.Failed))
	}
	if len(errs) > 0 {
		o.notify(ctx, opts, Event{Kind: RunFinished, Status: ledger.Failed})
		return report, errors.Join(errs...)
	}

	if opts.Publish {
		if err := o.publish(ctx, ids, opts, report); err != nil {
			o.notify(ctx, opts, Event{Kind: RunFinished, Status: ledger.Failed})
			return report, err
		}
	}

	o.notify(ctx, opts, Event{Kind: RunFinished, Status: ledger.Success})
	return report, nil
}

func (o *Orchestrator) checkPublishable(targets []*target.Target, version string) error {
	if o.ledger.IsPublished(version) {
		return fmt.Errorf("%w: %s", ErrAlreadyPublished, version)
	}
	if o.publisher == nil {
		return ErrNoPublisher
	}
	if len(targets) == 0 {
		return ErrNothingToPublish
	}
	return nil
}

// runTarget builds a single target. Returned errors other than ErrPackaging
// abort the run.
func (o *Orchestrator) runTarget(ctx context.Context, t *target.Target, opts RunOptions, report *Report) error {
	id := t.ID()
	ctx = ctxlog.With(ctx, "build_id", id)
	logger := ctxlog.FromContext(ctx)

	if !opts.ForceCompile && !o.ledger.NeedsCompile(id, opts.Version) {
		logger.Info("Target already built, skipping.")
		report.Skipped = append(report.Skipped, id)
		o.notify(ctx, opts, Event{Kind: BuildSkipped, BuildID: id, Status: ledger.Success})
		return nil
	}

	o.ledger.Start(id, opts.Version)
	if err := o.ledger.Save(); err != nil {
		return err
	}
	o.notify(ctx, opts, Event{Kind: BuildStarted, BuildID: id, Status: ledger.Started})
	logger.Info("Building target.", "triple", t.Triple())

	build, err := o.executor.Start(ctx, t, opts.Version)
	if err != nil {
		return o.abort(ctx, t, opts, report, fmt.Errorf("%w %s: %w", ErrSpawn, id, err))
	}
	ok, err := build.Wait()
	if err != nil {
		return o.abort(ctx, t, opts, report, fmt.Errorf("failed waiting for build %s: %w", id, err))
	}
	if !ok {
		logger.Error("Build failed.")
		return o.finish(ctx, t, opts, report, ledger.Failed)
	}

	if o.packager != nil {
		archive, err := o.packager.Package(ctx, t, opts.Version)
		if err != nil {
			logger.Error("Packaging failed.", "error", err)
			if ferr := o.finish(ctx, t, opts, report, ledger.Failed); ferr != nil {
				return ferr
			}
			return fmt.Errorf("%w %s: %w", ErrPackaging, id, err)
		}
		report.Archives = append(report.Archives, archive)
		logger.Debug("Build packaged.", "archive", archive)
	}

	logger.Info("Build succeeded.")
	return o.finish(ctx, t, opts, report, ledger.Success)
}

// abort marks the target failed, persists, and returns cause joined with any
// persistence error.
func (o *Orchestrator) abort(ctx context.Context, t *target.Target, opts RunOptions, report *Report, cause error) error {
	ctxlog.FromContext(ctx).Error("Aborting release run.", "error", cause)
	return errors.Join(cause, o.finish(ctx, t, opts, report, ledger.Failed))
}

func (o *Orchestrator) finish(ctx context.Context, t *target.Target, opts RunOptions, report *Report, status ledger.BuildStatus) error {
	id := t.ID()
	if status == ledger.Success {
		o.ledger.Succeed(id, opts.Version)
		report.Built = append(report.Built, id)
	} else {
		o.ledger.Fail(id, opts.Version)
		report.Failed = append(report.Failed, id)
	}
	o.notify(ctx, opts, Event{Kind: BuildFinished, BuildID: id, Status: status})
	return o.ledger.Save()
}

func (o *Orchestrator) publish(ctx context.Context, ids []string, opts RunOptions, report *Report) error {
	logger := ctxlog.FromContext(ctx)
	release := Release{Version: opts.Version, BuildIDs: ids}
	if o.packager != nil {
		archives, err := o.packager.Archives(opts.Version, ids)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPublish, err)
		}
		release.Archives = archives
	}

	logger.Info("Publishing release.", "archives", len(release.Archives))
	if err := o.publisher.Publish(ctx, release); err != nil {
		return fmt.Errorf("%w %s: %w", ErrPublish, opts.Version, err)
	}
	o.ledger.Publish(opts.Version)
	if err := o.ledger.Save(); err != nil {
		return err
	}
	report.Published = true
	o.notify(ctx, opts, Event{Kind: Published})
	logger.Info("Release published.")
	return nil
}

func (o *Orchestrator) notify(ctx context.Context, opts RunOptions, e Event) {
	e.RunID = opts.RunID
	e.Version = opts.Version
	o.notifier.Notify(ctx, e)
}
