// Package orchestrator drives one release run: it prunes the status ledger to
// the resolved targets, builds every target that still needs it one at a
// time, records each transition durably, and publishes the version once every
// build is green. Building, packaging, publishing and progress reporting are
// delegated to the collaborators declared in interface.go.
package orchestrator
