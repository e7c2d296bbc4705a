package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// fileV1 replaced license/readme with a free list of included files.
type fileV1 struct {
	ReleasePath   string           `hcl:"release_path"`
	IncludedFiles []string         `hcl:"included_files"`
	Platforms     []*platformBlock `hcl:"platform,block"`
}

func decodeV1(body hcl.Body) (any, hcl.Diagnostics) {
	var f fileV1
	diags := gohcl.DecodeBody(body, nil, &f)
	if diags.HasErrors() {
		return nil, diags
	}
	if diags := uniquePlatforms(f.Platforms); diags.HasErrors() {
		return nil, diags
	}
	return &f, nil
}

// upgradeV0 collapses readme and license into the included file list.
func upgradeV0(older any) any {
	v0 := older.(*fileV0)
	return &fileV1{
		ReleasePath:   v0.ReleasePath,
		IncludedFiles: []string{v0.Readme, v0.License},
		Platforms:     v0.Platforms,
	}
}
