// Package app wires the release run together: it loads the release config,
// resolves the target matrix, reads the status ledger, builds the
// collaborators from the runtime Config and hands everything to the
// orchestrator. It is decoupled from the CLI entrypoint.
package app
