// Package scaffold generates new sketch skeletons from embedded templates.
// It powers the "sketchpack new" command, producing a directory named after
// the sketch with a stub main file and a starter sketch.yaml.
package scaffold
