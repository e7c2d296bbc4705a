package target

import (
	"fmt"
	"maps"
	"strings"
	"unicode"
)

// Target is one resolved entry of the build matrix. Apart from the library
// search paths and environment overrides accumulated from configuration, it
// is immutable after construction.
type Target struct {
	platform    Platform
	buildName   string
	nativeDirs  []string
	environment map[string]string
}

// New constructs a target for a whitelisted (os, arch) pair. An empty
// buildName means the target has no variant.
func New(os OS, arch Arch, buildName string) (*Target, error) {
	p := Platform{OS: os, Arch: arch}
	if !p.Supported() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, p)
	}
	if err := ValidateBuildName(buildName); err != nil {
		return nil, err
	}
	return &Target{
		platform:    p,
		buildName:   buildName,
		environment: make(map[string]string),
	}, nil
}

// ValidateBuildName rejects variant names that could not serve as a single
// file name: the build-identifier names the staging directory and archive.
func ValidateBuildName(name string) error {
	switch {
	case name == "":
		return nil
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidBuildName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidBuildName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains \"..\"", ErrInvalidBuildName, name)
	case strings.ContainsFunc(name, unicode.IsControl):
		return fmt.Errorf("%w: %q contains a control character", ErrInvalidBuildName, name)
	}
	return nil
}

// Platform returns the (OS, architecture) pair.
func (t *Target) Platform() Platform { return t.platform }

// BuildName returns the variant name, or "" when there is none.
func (t *Target) BuildName() string { return t.buildName }

// Triple returns the canonical platform string, e.g. "x86_64-unknown-linux-gnu".
func (t *Target) Triple() string { return t.platform.Triple() }

// ID returns the build-identifier: the triple, suffixed with "-<build name>"
// when a variant name is set. The ledger is keyed by it and archives are
// named after it.
func (t *Target) ID() string {
	if t.buildName == "" {
		return t.Triple()
	}
	return t.Triple() + "-" + t.buildName
}

func (t *Target) String() string { return t.ID() }

// AddLibs appends library search paths. Order is kept and duplicates are allowed.
func (t *Target) AddLibs(paths ...string) {
	t.nativeDirs = append(t.nativeDirs, paths...)
}

// AddEnv merges environment overrides; later values win on duplicate keys.
func (t *Target) AddEnv(env map[string]string) {
	maps.Copy(t.environment, env)
}

// NativeDirs returns a copy of the accumulated library search paths.
func (t *Target) NativeDirs() []string {
	return append([]string(nil), t.nativeDirs...)
}

// Env returns a copy of the accumulated environment overrides.
func (t *Target) Env() map[string]string {
	return maps.Clone(t.environment)
}

// LinkerFlags renders the library search paths as "-L native=<dir>" flags
// joined by spaces.
func (t *Target) LinkerFlags() string {
	flags := make([]string, 0, len(t.nativeDirs))
	for _, dir := range t.nativeDirs {
		flags = append(flags, "-L native="+dir)
	}
	return strings.Join(flags, " ")
}

// IDs returns the build-identifiers of targets, in order.
func IDs(targets []*Target) []string {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, t.ID())
	}
	return ids
}
