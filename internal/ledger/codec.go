package ledger

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	rghcl "github.com/specialistvlad/releasegrid/internal/hcl"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateVersion is returned when a status file records a version twice.
var ErrDuplicateVersion = errors.New("duplicate version in status file")

// Codec converts the ledger to and from its on-disk form.
type Codec interface {
	Decode(data []byte, filename string) (map[string]*VersionStatus, error)
	Encode(versions map[string]*VersionStatus) ([]byte, error)
}

// CodecFor picks the codec from the file extension.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return HCLCodec{}
	}
}

// HCLCodec stores one labelled block per version:
//
//	version "0.3.0" {
//	  published   = false
//	  build_names = {
//	    "x86_64-unknown-linux-gnu" = "Success"
//	  }
//	}
type HCLCodec struct{}

type hclFile struct {
	Versions []*hclVersion `hcl:"version,block"`
}

type hclVersion struct {
	Version    string            `hcl:"version,label"`
	Published  bool              `hcl:"published,optional"`
	BuildNames map[string]string `hcl:"build_names,optional"`
}

func (HCLCodec) Decode(data []byte, filename string) (map[string]*VersionStatus, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	var f hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, diags
	}

	out := make(map[string]*VersionStatus, len(f.Versions))
	for _, v := range f.Versions {
		if _, dup := out[v.Version]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateVersion, v.Version)
		}
		vs, err := buildVersion(v.Published, v.BuildNames)
		if err != nil {
			return nil, fmt.Errorf("version %q: %w", v.Version, err)
		}
		out[v.Version] = vs
	}
	return out, nil
}

func (HCLCodec) Encode(versions map[string]*VersionStatus) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, v := range slices.Sorted(maps.Keys(versions)) {
		if i > 0 {
			body.AppendNewline()
		}
		vs := versions[v]
		block := body.AppendNewBlock("version", []string{v}).Body()
		block.SetAttributeValue("published", cty.BoolVal(vs.Published))
		builds := make(map[string]string, len(vs.Builds))
		for id, s := range vs.Builds {
			builds[id] = string(s)
		}
		block.SetAttributeValue("build_names", rghcl.StringMap(builds))
	}
	return hclwrite.Format(f.Bytes()), nil
}

// YAMLCodec stores the ledger as a mapping keyed by version.
type YAMLCodec struct{}

type yamlVersion struct {
	Published  bool              `yaml:"published"`
	BuildNames map[string]string `yaml:"build_names"`
}

func (YAMLCodec) Decode(data []byte, _ string) (map[string]*VersionStatus, error) {
	var raw map[string]yamlVersion
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]*VersionStatus, len(raw))
	for v, rv := range raw {
		vs, err := buildVersion(rv.Published, rv.BuildNames)
		if err != nil {
			return nil, fmt.Errorf("version %q: %w", v, err)
		}
		out[v] = vs
	}
	return out, nil
}

func (YAMLCodec) Encode(versions map[string]*VersionStatus) ([]byte, error) {
	raw := make(map[string]yamlVersion, len(versions))
	for v, vs := range versions {
		builds := make(map[string]string, len(vs.Builds))
		for id, s := range vs.Builds {
			builds[id] = string(s)
		}
		raw[v] = yamlVersion{Published: vs.Published, BuildNames: builds}
	}
	return yaml.Marshal(raw)
}

func buildVersion(published bool, builds map[string]string) (*VersionStatus, error) {
	vs := newVersionStatus()
	vs.Published = published
	for id, raw := range builds {
		s, err := ParseBuildStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("build %q: %w", id, err)
		}
		vs.Builds[id] = s
	}
	return vs, nil
}
