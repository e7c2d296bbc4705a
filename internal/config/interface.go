package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the document at path, upgrading it from an older schema
	// version when it does not parse as the current one.
	Load(ctx context.Context, path string) (*Document, State, error)

	// Save writes doc to path in the current schema.
	Save(ctx context.Context, path string, doc *Document) error
}
