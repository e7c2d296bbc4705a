// Package artifact stages the output of a successful build together with the
// release's auxiliary files and packs the staging directory into a zip
// archive.
package artifact
