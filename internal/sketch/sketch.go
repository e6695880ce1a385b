package sketch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Recognized main-file extensions.
const (
	MainFileExtension   = ".ino"
	LegacyFileExtension = ".pde"
)

// Validation outcomes for the one-main-file invariant.
var (
	ErrNoMainFile        = errors.New("no valid sketch found")
	ErrMultipleMainFiles = errors.New("multiple main sketch files found")
)

// Sketch describes a validated sketch directory.
type Sketch struct {
	Name     string // base name, equal to the main file's name without extension
	FullPath string // absolute, normalized path to the sketch directory
	MainFile string // absolute path to the single main source file
}

// New resolves path to a sketch directory and validates it. An empty path
// means the current working directory; a path ending in a recognized source
// extension points at the main file and resolves to its parent directory.
//
// The returned warnings list one deprecated .pde file per entry (path
// relative to the sketch root) and is populated even when validation fails,
// so callers can surface them before the terminal error.
func New(path string) (*Sketch, []string, error) {
	root, name, err := resolveRoot(path)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := collectDeprecationWarnings(root)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := mainFileCandidates(root, name)
	if err != nil {
		return nil, warnings, err
	}

	switch len(candidates) {
	case 0:
		return nil, warnings, fmt.Errorf("%w in %s", ErrNoMainFile, root)
	case 1:
		return &Sketch{
			Name:     name,
			FullPath: root,
			MainFile: filepath.Join(root, candidates[0]),
		}, warnings, nil
	default:
		return nil, warnings, fmt.Errorf("%w in %s: %s",
			ErrMultipleMainFiles, root, strings.Join(candidates, ", "))
	}
}

// resolveRoot turns a raw user path into an absolute sketch directory and
// derived sketch name. Relative paths resolve against the working directory.
func resolveRoot(path string) (string, string, error) {
	if path == "" {
		path = "."
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolving sketch path %s: %w", path, err)
	}
	abs = filepath.Clean(abs)

	if ext := filepath.Ext(abs); isMainFileExtension(ext) {
		// The argument points at the main file; the sketch is its parent.
		name := strings.TrimSuffix(filepath.Base(abs), ext)
		return filepath.Dir(abs), name, nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", "", fmt.Errorf("resolving sketch path %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("sketch path %s is not a directory", abs)
	}

	return abs, filepath.Base(abs), nil
}

// mainFileCandidates lists direct children of root whose base name equals
// name and whose extension is recognized. Matching is case-sensitive: a file
// whose casing differs from the directory name never qualifies.
func mainFileCandidates(root, name string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading sketch directory %s: %w", root, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isMainFileExtension(ext) {
			continue
		}
		if strings.TrimSuffix(entry.Name(), ext) == name {
			candidates = append(candidates, entry.Name())
		}
	}

	sort.Strings(candidates)
	return candidates, nil
}

// collectDeprecationWarnings finds .pde files at any depth under root and
// returns one warning line per file, ordered by relative path.
func collectDeprecationWarnings(root string) ([]string, error) {
	var warnings []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) != LegacyFileExtension {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		warnings = append(warnings,
			fmt.Sprintf("%s uses a deprecated extension (.pde); please rename it to .ino", rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning sketch directory %s: %w", root, err)
	}
	sort.Strings(warnings)
	return warnings, nil
}

func isMainFileExtension(ext string) bool {
	return ext == MainFileExtension || ext == LegacyFileExtension
}
