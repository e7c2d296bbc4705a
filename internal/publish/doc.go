// Package publish implements the actions run once every target of a version
// has been built: running a publish command and uploading the archives to S3.
package publish
