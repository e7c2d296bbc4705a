// Package ledger persists per-version, per-target build outcomes so an
// interrupted or partially failed release run can resume without redoing
// completed work. A version or build-identifier missing from the ledger means
// "nothing built yet"; every mutation is followed by the caller persisting the
// whole file with an atomic replace.
package ledger
