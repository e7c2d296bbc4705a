package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// schemaVersion is one historical shape of the release configuration.
type schemaVersion struct {
	name string
	// decode parses a body strictly as this version; unknown attributes or
	// blocks are errors, which is what lets an older document fall through.
	decode func(body hcl.Body) (any, hcl.Diagnostics)
	// upgrade converts a value decoded by the next older version into this
	// version. It must succeed for every value the older decode accepts.
	upgrade func(older any) any
}

// chain lists the schema versions newest first and ends with the base
// version, which accepts nothing.
var chain = []schemaVersion{
	{name: "v2", decode: decodeV2, upgrade: upgradeV1},
	{name: "v1", decode: decodeV1, upgrade: upgradeV0},
	{name: "v0", decode: decodeV0, upgrade: upgradeBase},
	{name: "base", decode: decodeBase},
}

func decodeBase(hcl.Body) (any, hcl.Diagnostics) {
	return nil, hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "No earlier configuration schema",
		Detail:   "The document does not match any known release configuration schema.",
	}}
}

// platformBlock is the single-override-per-pair block used by v0 and v1.
type platformBlock struct {
	OS   string            `hcl:"os,label"`
	Arch string            `hcl:"arch,label"`
	Libs []string          `hcl:"libs,optional"`
	Env  map[string]string `hcl:"env,optional"`
}

// uniquePlatforms rejects documents that configure a pair twice; the old
// schemas map each pair to exactly one override.
func uniquePlatforms(platforms []*platformBlock) hcl.Diagnostics {
	var diags hcl.Diagnostics
	seen := make(map[[2]string]struct{}, len(platforms))
	for _, p := range platforms {
		key := [2]string{p.OS, p.Arch}
		if _, dup := seen[key]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate platform block",
				Detail:   "Platform " + p.OS + "/" + p.Arch + " is configured more than once.",
			})
			continue
		}
		seen[key] = struct{}{}
	}
	return diags
}
