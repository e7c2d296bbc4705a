package orchestrator

import (
	"context"

	"github.com/specialistvlad/releasegrid/internal/ledger"
)

// EventKind names a step of the run reported to the Notifier.
type EventKind string

const (
	RunStarted    EventKind = "run_started"
	BuildStarted  EventKind = "build_started"
	BuildFinished EventKind = "build_finished"
	BuildSkipped  EventKind = "build_skipped"
	Published     EventKind = "published"
	RunFinished   EventKind = "run_finished"
)

// Event is a single progress notification.
type Event struct {
	RunID   string
	Kind    EventKind
	Version string
	BuildID string
	Status  ledger.BuildStatus
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}
