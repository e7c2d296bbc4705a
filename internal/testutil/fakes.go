package testutil

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync"

	"github.com/specialistvlad/releasegrid/internal/orchestrator"
	"github.com/specialistvlad/releasegrid/internal/target"
)

// ErrScripted is the error returned by fakes configured to fail.
var ErrScripted = errors.New("scripted failure")

// FakeExecutor records every Start call and returns scripted outcomes keyed
// by build-identifier. Unscripted targets succeed.
type FakeExecutor struct {
	mu sync.Mutex

	Fail     map[string]bool
	SpawnErr map[string]error
	WaitErr  map[string]error
	// OnStart, when set, runs inside Start before the build is returned.
	OnStart func(t *target.Target)

	calls []string
}

// Start implements orchestrator.Executor.
func (f *FakeExecutor) Start(_ context.Context, t *target.Target, _ string) (orchestrator.Build, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := t.ID()
	f.calls = append(f.calls, id)
	if f.OnStart != nil {
		f.OnStart(t)
	}
	if err := f.SpawnErr[id]; err != nil {
		return nil, err
	}
	return fakeBuild{ok: !f.Fail[id], err: f.WaitErr[id]}, nil
}

// Calls returns the build-identifiers passed to Start, in order.
func (f *FakeExecutor) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

type fakeBuild struct {
	ok  bool
	err error
}

func (b fakeBuild) Wait() (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	return b.ok, nil
}

// FakePackager pretends to write <Dir>/<version>/<build-id>.zip.
type FakePackager struct {
	mu sync.Mutex

	Dir  string
	Fail map[string]bool

	packaged []string
}

// Package implements orchestrator.Packager.
func (p *FakePackager) Package(_ context.Context, t *target.Target, version string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail[t.ID()] {
		return "", ErrScripted
	}
	archive := filepath.Join(p.Dir, version, t.ID()+".zip")
	p.packaged = append(p.packaged, archive)
	return archive, nil
}

// Archives implements orchestrator.Packager.
func (p *FakePackager) Archives(version string, buildIDs []string) ([]string, error) {
	out := make([]string, 0, len(buildIDs))
	for _, id := range buildIDs {
		out = append(out, filepath.Join(p.Dir, version, id+".zip"))
	}
	return out, nil
}

// Packaged returns the archives produced so far.
func (p *FakePackager) Packaged() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.packaged)
}

// RecordingPublisher records every release it is asked to publish.
type RecordingPublisher struct {
	mu sync.Mutex

	Err      error
	releases []orchestrator.Release
}

// Publish implements orchestrator.Publisher.
func (p *RecordingPublisher) Publish(_ context.Context, r orchestrator.Release) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releases = append(p.releases, r)
	return p.Err
}

// Releases returns the recorded releases.
func (p *RecordingPublisher) Releases() []orchestrator.Release {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.releases)
}

// RecordingNotifier records every event.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []orchestrator.Event
}

// Notify implements orchestrator.Notifier.
func (n *RecordingNotifier) Notify(_ context.Context, e orchestrator.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

// Events returns the recorded events.
func (n *RecordingNotifier) Events() []orchestrator.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.events)
}

// Kinds returns the kinds of the recorded events, in order.
func (n *RecordingNotifier) Kinds() []orchestrator.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]orchestrator.EventKind, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Kind)
	}
	return out
}
