package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// fileV0 is the original schema: separate license and readme files and one
// platform block per OS/architecture pair.
type fileV0 struct {
	ReleasePath string           `hcl:"release_path"`
	License     string           `hcl:"license"`
	Readme      string           `hcl:"readme"`
	Platforms   []*platformBlock `hcl:"platform,block"`
}

func decodeV0(body hcl.Body) (any, hcl.Diagnostics) {
	var f fileV0
	diags := gohcl.DecodeBody(body, nil, &f)
	if diags.HasErrors() {
		return nil, diags
	}
	if diags := uniquePlatforms(f.Platforms); diags.HasErrors() {
		return nil, diags
	}
	return &f, nil
}

// upgradeBase exists to keep the chain total; the base version never decodes.
func upgradeBase(any) any {
	return &fileV0{}
}
