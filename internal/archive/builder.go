package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sketchpack-labs/sketchpack/internal/sketch"
)

// BuildDirName is the conventional build-output directory name excluded
// from archives by default.
const BuildDirName = "build"

// entry is one file selected for inclusion: its path inside the archive and
// its absolute source path.
type entry struct {
	archivePath string
	sourcePath  string
}

// Build writes the sketch archive at the target path. Every included file is
// stored under a top-level folder named after the sketch. The archive is
// written to a temporary file in the destination directory and renamed into
// place only on full success, so a failed or interrupted build never leaves
// a partial archive at the final path.
//
// createdDest reports whether the destination directory had to be created.
func Build(sk *sketch.Sketch, target Target, includeBuildDir bool) (archivePath string, createdDest bool, err error) {
	if _, err := os.Stat(target.DestinationDir); os.IsNotExist(err) {
		if err := os.MkdirAll(target.DestinationDir, 0755); err != nil {
			return "", false, fmt.Errorf("creating destination directory %s: %w", target.DestinationDir, err)
		}
		createdDest = true
	}

	entries, err := selectFiles(sk, includeBuildDir)
	if err != nil {
		return "", createdDest, err
	}

	final := target.FilePath()
	if err := writeArchive(final, entries); err != nil {
		return "", createdDest, err
	}
	return final, createdDest, nil
}

// selectFiles walks the sketch tree depth-first and returns the files to
// include, sorted by archive path for deterministic output. Paths whose
// first component under the sketch root is the build directory are skipped
// unless includeBuildDir is set. Symlinks and other special files are
// skipped.
func selectFiles(sk *sketch.Sketch, includeBuildDir bool) ([]entry, error) {
	var entries []entry
	err := filepath.WalkDir(sk.FullPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == sk.FullPath {
			return nil
		}

		rel, err := filepath.Rel(sk.FullPath, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if !includeBuildDir && rel == BuildDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		entries = append(entries, entry{
			archivePath: sk.Name + "/" + filepath.ToSlash(rel),
			sourcePath:  path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking sketch directory %s: %w", sk.FullPath, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].archivePath < entries[j].archivePath
	})
	return entries, nil
}

// writeArchive creates the zip at final via a temporary sibling file. On any
// failure the temporary file is removed and the previous archive, if one
// exists, is left untouched.
func writeArchive(final string, entries []entry) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(final), filepath.Base(final)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary archive: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, e := range entries {
		if err := addFile(zw, e); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary archive: %w", err)
	}

	if err := os.Rename(tmpPath, final); err != nil {
		return fmt.Errorf("writing archive %s: %w", final, err)
	}
	committed = true
	return nil
}

// addFile streams one source file into the zip under its archive path.
func addFile(zw *zip.Writer, e entry) error {
	info, err := os.Stat(e.sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", e.sourcePath, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("preparing header for %s: %w", e.sourcePath, err)
	}
	header.Name = e.archivePath
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", e.archivePath, err)
	}

	f, err := os.Open(e.sourcePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", e.sourcePath, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("compressing %s: %w", e.sourcePath, err)
	}
	return nil
}
