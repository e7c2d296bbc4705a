package config

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/releasegrid/internal/target"
)

// ErrDuplicateTarget marks an override whose build-identifier was already
// produced by an earlier entry.
var ErrDuplicateTarget = errors.New("duplicate build-identifier")

// Skipped describes a configuration entry that did not become a target.
type Skipped struct {
	OS        string
	Arch      string
	BuildName string
	Reason    error
}

// Resolution is the outcome of turning a document into a build matrix.
type Resolution struct {
	Targets []*target.Target
	Skipped []Skipped
}

// Resolve builds the target matrix. Resolution is best effort: entries with
// an unknown OS or architecture, a pair outside the whitelist, a build name
// that is not a plain file name, or a build-identifier already taken are reported in Skipped and the rest still
// resolve. Order is sorted OS key, sorted architecture key, then document
// order of the overrides.
func (d *Document) Resolve() Resolution {
	var res Resolution
	seen := make(map[string]struct{})

	for _, osName := range d.OSNames() {
		os, err := target.ParseOS(osName)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{OS: osName, Reason: err})
			continue
		}
		for _, archName := range d.ArchNames(osName) {
			arch, err := target.ParseArch(archName)
			if err != nil {
				res.Skipped = append(res.Skipped, Skipped{OS: osName, Arch: archName, Reason: err})
				continue
			}
			for _, o := range d.Config[osName][archName] {
				t, err := target.New(os, arch, o.BuildName)
				if err != nil {
					res.Skipped = append(res.Skipped, Skipped{OS: osName, Arch: archName, BuildName: o.BuildName, Reason: err})
					continue
				}
				if _, dup := seen[t.ID()]; dup {
					res.Skipped = append(res.Skipped, Skipped{
						OS: osName, Arch: archName, BuildName: o.BuildName,
						Reason: fmt.Errorf("%w: %s", ErrDuplicateTarget, t.ID()),
					})
					continue
				}
				seen[t.ID()] = struct{}{}
				t.AddLibs(o.Libs...)
				t.AddEnv(o.Env)
				res.Targets = append(res.Targets, t)
			}
		}
	}
	return res
}
