// Package target models a single build target: an operating system, a CPU
// architecture and an optional build variant name. Only a fixed whitelist of
// (OS, architecture) pairs can be constructed; each renders to a canonical
// platform triple which, suffixed by the variant name, identifies the target
// in the status ledger and names its release archive.
package target
