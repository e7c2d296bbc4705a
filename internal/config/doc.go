// Package config defines the format-agnostic release configuration document
// and the Loader interface implemented by concrete file formats. Everything
// downstream of loading works on the current schema only.
package config
