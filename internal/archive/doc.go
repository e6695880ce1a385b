// Package archive turns a validated sketch into a single zip file. It
// resolves the destination directory and archive name from a raw user
// argument, walks the sketch tree applying the build-directory exclusion
// policy, and commits the archive atomically via a temporary file.
package archive
