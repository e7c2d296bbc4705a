// Package fsutil provides file system utility functions shared by the
// configuration writer, the status ledger and the artifact stager.
package fsutil
