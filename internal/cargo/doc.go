// Package cargo builds release targets with the cargo toolchain and reads the
// package metadata from Cargo.toml.
package cargo
