// Package sketch models a sketch on disk: a directory named after its single
// main source file, plus any auxiliary files. It resolves user-supplied paths
// to a sketch root, enforces the one-main-file invariant, collects
// deprecated-extension warnings, and loads the optional sketch.yaml metadata.
package sketch
