package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/releasegrid/internal/artifact"
	"github.com/specialistvlad/releasegrid/internal/cargo"
	"github.com/specialistvlad/releasegrid/internal/config"
	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/specialistvlad/releasegrid/internal/ledger"
	"github.com/specialistvlad/releasegrid/internal/notify"
	"github.com/specialistvlad/releasegrid/internal/orchestrator"
	"github.com/specialistvlad/releasegrid/internal/publish"
)

// Run performs one release run.
func (a *App) Run(ctx context.Context) (err error) {
	runID := a.newRunID()
	ctx = ctxlog.WithLogger(ctx, a.logger.With("run_id", runID))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	name, version, err := a.releaseIdentity()
	if err != nil {
		return err
	}
	ctx = ctxlog.With(ctx, "name", name)

	doc, err := a.loadReleaseConfig(ctx)
	if err != nil {
		return err
	}

	resolution := doc.Resolve()
	for _, s := range resolution.Skipped {
		logger.Warn("Skipping invalid target.", "os", s.OS, "arch", s.Arch, "build_name", s.BuildName, "reason", s.Reason)
	}
	logger.Info("Target matrix resolved.", "targets", len(resolution.Targets), "skipped", len(resolution.Skipped))

	l := ledger.New(a.projectPath(a.config.StatusFile))
	if err := l.Read(); err != nil {
		logger.Warn("Status file unreadable, starting from an empty ledger.", "error", err)
	}
	a.setLedger(l)

	a.startStatusServer(ctx)
	defer func() {
		if cerr := a.closeStatusServer(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	opts := []orchestrator.Option{
		orchestrator.WithPackager(&artifact.Bundler{
			ProjectDir:    a.config.ProjectDir,
			ReleasePath:   doc.ReleasePath,
			Name:          name,
			IncludedFiles: doc.IncludedFiles,
		}),
	}
	if a.config.Publish {
		pub, err := a.buildPublisher(ctx, name)
		if err != nil {
			return err
		}
		if pub != nil {
			opts = append(opts, orchestrator.WithPublisher(pub))
		}
	}
	notifier, closeNotifier := a.buildNotifier(ctx)
	defer closeNotifier()
	opts = append(opts, orchestrator.WithNotifier(notifier))

	exec := a.executor
	if exec == nil {
		exec = cargo.NewExecutor(a.config.ProjectDir, a.outW, a.outW)
	}

	logger.Info("🚀 Starting release run...", "version", version, "publish", a.config.Publish, "force", a.config.ForceCompile)
	report, runErr := orchestrator.New(l, exec, opts...).Run(ctx, resolution.Targets, orchestrator.RunOptions{
		RunID:        runID,
		Version:      version,
		ForceCompile: a.config.ForceCompile,
		Publish:      a.config.Publish,
	})
	if report != nil {
		logger.Info("🏁 Release run finished.", "report", report)
	}
	if runErr != nil {
		return fmt.Errorf("release %s %s failed: %w", name, version, runErr)
	}
	return nil
}

// releaseIdentity returns the package name and version, falling back to
// Cargo.toml for whichever was not configured.
func (a *App) releaseIdentity() (string, string, error) {
	name, version := a.config.Name, a.config.Version
	if name == "" || version == "" {
		m, err := cargo.ReadManifest(a.config.ProjectDir)
		if err != nil {
			return "", "", fmt.Errorf("package name and version not configured: %w", err)
		}
		if name == "" {
			name = m.Package.Name
		}
		if version == "" {
			version = m.Package.Version
		}
	}
	if err := ValidateVersion(version); err != nil {
		return "", "", err
	}
	return name, version, nil
}

func (a *App) loadReleaseConfig(ctx context.Context) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	path := a.projectPath(a.config.ReleaseConfig)

	doc, state, err := a.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load release config: %w", err)
	}
	if state == config.Upgraded {
		if a.config.UpgradeConfig {
			if err := a.loader.Save(ctx, path, doc); err != nil {
				return nil, err
			}
		} else {
			logger.Warn("Release config uses an older schema; pass -upgrade-config to rewrite it.", "path", path)
		}
	}
	return doc, nil
}

// buildPublisher returns the configured publishers, or nil when none is.
func (a *App) buildPublisher(ctx context.Context, name string) (orchestrator.Publisher, error) {
	if a.publisher != nil {
		return a.publisher, nil
	}

	var pubs publish.Multi
	if a.config.S3Bucket != "" {
		s3, err := publish.NewS3(ctx, publish.S3Config{
			Bucket:   a.config.S3Bucket,
			Region:   a.config.S3Region,
			Endpoint: a.config.S3Endpoint,
			Prefix:   a.config.S3Prefix,
			Name:     name,
		})
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, s3)
	}
	if a.config.PublishCommand != "" {
		cmd, err := publish.NewCommand(a.config.ProjectDir, a.config.PublishCommand, a.outW, a.outW)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, cmd)
	}

	switch len(pubs) {
	case 0:
		return nil, nil
	case 1:
		return pubs[0], nil
	default:
		return pubs, nil
	}
}

func (a *App) notifyOptions() notify.Options {
	return notify.Options{
		URL:                a.config.NotifyURL,
		Namespace:          a.config.NotifyNamespace,
		InsecureSkipVerify: a.config.NotifyInsecure,
	}
}

// buildNotifier connects the socket.io notifier when configured. A failed
// connection is logged and the run continues without notifications.
func (a *App) buildNotifier(ctx context.Context) (orchestrator.Notifier, func()) {
	if a.notifier != nil {
		return a.notifier, func() {}
	}
	if a.config.NotifyURL == "" {
		return nil, func() {}
	}
	n, err := notify.Dial(ctx, a.notifyOptions())
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Notifier unavailable, continuing without it.", "error", err)
		return nil, func() {}
	}
	return n, n.Close
}
