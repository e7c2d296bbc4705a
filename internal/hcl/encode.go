package hcl

import (
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/releasegrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders doc in the current schema. Output is deterministic: target
// blocks are ordered by OS name, then architecture name, then override order.
func Encode(doc *config.Document) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("release_path", cty.StringVal(doc.ReleasePath))
	body.SetAttributeValue("included_files", StringList(doc.IncludedFiles))

	for _, osName := range doc.OSNames() {
		for _, archName := range doc.ArchNames(osName) {
			for _, o := range doc.Config[osName][archName] {
				body.AppendNewline()
				block := body.AppendNewBlock("target", []string{osName, archName}).Body()
				if o.BuildName != "" {
					block.SetAttributeValue("build_name", cty.StringVal(o.BuildName))
				}
				if len(o.Libs) > 0 {
					block.SetAttributeValue("libs", StringList(o.Libs))
				}
				if len(o.Env) > 0 {
					block.SetAttributeValue("env", StringMap(o.Env))
				}
			}
		}
	}
	return hclwrite.Format(f.Bytes())
}

// StringList converts values to a cty list of strings.
func StringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	out := make([]cty.Value, 0, len(values))
	for _, v := range values {
		out = append(out, cty.StringVal(v))
	}
	return cty.ListVal(out)
}

// StringMap converts values to a cty map of strings.
func StringMap(values map[string]string) cty.Value {
	if len(values) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	out := make(map[string]cty.Value, len(values))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		out[k] = cty.StringVal(values[k])
	}
	return cty.MapVal(out)
}
