package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrInvalidDocument is returned when a configuration file matches none of
// the known schema versions.
var ErrInvalidDocument = errors.New("invalid release configuration")

// Override carries per-target settings for one OS/architecture entry. Several
// overrides for the same pair produce several targets, told apart by BuildName.
type Override struct {
	BuildName string
	Libs      []string
	Env       map[string]string
}

// Document is the current schema of the release configuration.
type Document struct {
	// ReleasePath is the base output directory for staged files and archives.
	ReleasePath string
	// IncludedFiles are copied into every target's output, e.g. LICENSE and README.
	IncludedFiles []string
	// Config maps OS name -> architecture name -> overrides.
	Config map[string]map[string][]Override
}

// State records whether a document was read in the current schema or
// converted from an older one.
type State int

const (
	Current State = iota
	Upgraded
)

func (s State) String() string {
	switch s {
	case Current:
		return "current"
	case Upgraded:
		return "upgraded"
	default:
		return "unknown"
	}
}

// Validate checks the fields every schema version requires.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ReleasePath) == "" {
		return errors.New("release_path must not be empty")
	}
	for i, f := range d.IncludedFiles {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("included_files[%d] must not be empty", i)
		}
	}
	return nil
}

// AddOverride appends an override for the given OS and architecture names.
func (d *Document) AddOverride(osName, archName string, o Override) {
	if d.Config == nil {
		d.Config = make(map[string]map[string][]Override)
	}
	arches, ok := d.Config[osName]
	if !ok {
		arches = make(map[string][]Override)
		d.Config[osName] = arches
	}
	arches[archName] = append(arches[archName], o)
}

// OSNames returns the configured OS keys sorted.
func (d *Document) OSNames() []string {
	return slices.Sorted(maps.Keys(d.Config))
}

// ArchNames returns the architecture keys configured for osName, sorted.
func (d *Document) ArchNames(osName string) []string {
	return slices.Sorted(maps.Keys(d.Config[osName]))
}
