package orchestrator

import "log/slog"

// Report summarises a run. Build-identifiers appear in processing order.
type Report struct {
	RunID     string
	Version   string
	Built     []string
	Skipped   []string
	Failed    []string
	Pruned    []string
	Archives  []string
	Published bool
}

// LogValue renders the report as a single structured log attribute group.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("version", r.Version),
		slog.Any("built", r.Built),
		slog.Any("skipped", r.Skipped),
		slog.Any("failed", r.Failed),
		slog.Any("pruned", r.Pruned),
		slog.Int("archives", len(r.Archives)),
		slog.Bool("published", r.Published),
	)
}
