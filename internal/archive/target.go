package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the fixed archive container extension.
const Extension = ".zip"

// Target describes where the archive file will be written.
type Target struct {
	DestinationDir string // absolute directory the archive is written into
	Name           string // archive base name, without the extension
}

// FilePath returns the absolute path of the archive file.
func (t Target) FilePath() string {
	return filepath.Join(t.DestinationDir, t.Name+Extension)
}

// destKind classifies a destination argument once, so the tie-break policy
// lives in a single place instead of scattered conditionals.
type destKind int

const (
	destDirOnly     destKind = iota // argument names a directory
	destDirPlusName                 // final segment is the archive name
)

// ResolveTarget derives the archive target from an optional destination
// argument and the sketch name. An empty argument defaults to the current
// working directory with the sketch's name. Relative arguments resolve
// against the working directory, never against the sketch root.
//
// An argument naming an existing directory (or ending in a path separator)
// is purely a destination directory. Otherwise its final segment becomes the
// archive name, with a trailing archive extension stripped so names are
// never doubled, provided the parent directory exists or can be created.
func ResolveTarget(destArg, sketchName string) (Target, error) {
	if destArg == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Target{}, fmt.Errorf("resolving working directory: %w", err)
		}
		return Target{DestinationDir: cwd, Name: sketchName}, nil
	}

	trailingSep := strings.HasSuffix(destArg, string(os.PathSeparator)) ||
		strings.HasSuffix(destArg, "/")

	abs, err := filepath.Abs(destArg)
	if err != nil {
		return Target{}, fmt.Errorf("resolving archive destination %s: %w", destArg, err)
	}
	abs = filepath.Clean(abs)

	switch classifyDestination(abs, trailingSep) {
	case destDirOnly:
		if err := ensureCreatable(abs); err != nil {
			return Target{}, err
		}
		return Target{DestinationDir: abs, Name: sketchName}, nil
	default:
		parent := filepath.Dir(abs)
		if err := ensureCreatable(parent); err != nil {
			return Target{}, err
		}
		name := strings.TrimSuffix(filepath.Base(abs), Extension)
		return Target{DestinationDir: parent, Name: name}, nil
	}
}

// classifyDestination decides between the directory-only and
// directory-plus-name readings of a destination argument. An existing
// directory is authoritative, even when the argument looks like a file name.
func classifyDestination(abs string, trailingSep bool) destKind {
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return destDirOnly
	}
	if trailingSep {
		return destDirOnly
	}
	return destDirPlusName
}

// ensureCreatable verifies dir exists as a directory or could be created:
// the nearest existing ancestor must be a directory.
func ensureCreatable(dir string) error {
	for p := dir; ; {
		info, err := os.Stat(p)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("archive destination %s: %s is not a directory", dir, p)
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("resolving archive destination %s: %w", dir, err)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return fmt.Errorf("archive destination %s cannot be created", dir)
		}
		p = parent
	}
}
