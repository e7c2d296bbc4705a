// Package hcl provides the concrete HCL implementation of the configuration
// Loader defined in the `config` package. It knows every historical shape of
// the release configuration and upgrades older documents, one schema version
// at a time, into the current config.Document.
package hcl
