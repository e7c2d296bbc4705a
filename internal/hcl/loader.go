package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/releasegrid/internal/config"
	"github.com/specialistvlad/releasegrid/internal/ctxlog"
	"github.com/specialistvlad/releasegrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and decodes the release configuration at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, config.State, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, config.Current, fmt.Errorf("failed to read release config %s: %w", path, err)
	}
	return l.Parse(ctx, src, path)
}

// Parse decodes src as the newest schema version that accepts it and upgrades
// the result to the current schema. When no version accepts the document the
// returned error carries the diagnostics of the current schema, since those
// describe what the user most likely has to fix.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*config.Document, config.State, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, config.Current, fmt.Errorf("%w: failed to parse %s: %w", config.ErrInvalidDocument, filename, diags)
	}

	var currentDiags hcl.Diagnostics
	for i, version := range chain {
		logger.Debug("Trying release config schema.", "schema", version.name)
		decoded, diags := version.decode(file.Body)
		if diags.HasErrors() {
			if i == 0 {
				currentDiags = diags
			}
			continue
		}

		for j := i - 1; j >= 0; j-- {
			logger.Debug("Upgrading release config.", "from", chain[j+1].name, "to", chain[j].name)
			decoded = chain[j].upgrade(decoded)
		}
		doc := decoded.(*config.Document)
		if err := doc.Validate(); err != nil {
			return nil, config.Current, fmt.Errorf("%w: %s: %w", config.ErrInvalidDocument, filename, err)
		}

		if i == 0 {
			logger.Debug("Release config loaded.", "schema", version.name)
			return doc, config.Current, nil
		}
		logger.Info("Release config upgraded from an older schema.", "path", filename, "from", version.name, "to", chain[0].name)
		return doc, config.Upgraded, nil
	}

	return nil, config.Current, fmt.Errorf("%w: failed to decode %s: %w", config.ErrInvalidDocument, filename, currentDiags)
}

// Save writes doc to path in the current schema, replacing the file atomically.
func (l *Loader) Save(ctx context.Context, path string, doc *config.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("refusing to save release config: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, Encode(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write release config %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("Release config saved.", "path", path, "schema", chain[0].name)
	return nil
}
