package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/releasegrid/internal/config"
)

// fileV2 is the current schema. A pair may appear in several target blocks,
// each producing its own variant.
type fileV2 struct {
	ReleasePath   string         `hcl:"release_path"`
	IncludedFiles []string       `hcl:"included_files"`
	Targets       []*targetBlock `hcl:"target,block"`
}

type targetBlock struct {
	OS        string            `hcl:"os,label"`
	Arch      string            `hcl:"arch,label"`
	BuildName string            `hcl:"build_name,optional"`
	Libs      []string          `hcl:"libs,optional"`
	Env       map[string]string `hcl:"env,optional"`
}

func decodeV2(body hcl.Body) (any, hcl.Diagnostics) {
	var f fileV2
	if diags := gohcl.DecodeBody(body, nil, &f); diags.HasErrors() {
		return nil, diags
	}

	doc := &config.Document{
		ReleasePath:   f.ReleasePath,
		IncludedFiles: f.IncludedFiles,
		Config:        make(map[string]map[string][]config.Override),
	}
	for _, t := range f.Targets {
		doc.AddOverride(t.OS, t.Arch, config.Override{
			BuildName: t.BuildName,
			Libs:      t.Libs,
			Env:       t.Env,
		})
	}
	return doc, nil
}

// upgradeV1 turns every platform block into a one-element override list
// without a build name.
func upgradeV1(older any) any {
	v1 := older.(*fileV1)
	doc := &config.Document{
		ReleasePath:   v1.ReleasePath,
		IncludedFiles: v1.IncludedFiles,
		Config:        make(map[string]map[string][]config.Override),
	}
	for _, p := range v1.Platforms {
		doc.AddOverride(p.OS, p.Arch, config.Override{
			Libs: p.Libs,
			Env:  p.Env,
		})
	}
	return doc
}
