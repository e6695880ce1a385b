//go:build integration

package integration_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// workDir creates an isolated working directory and chdirs into it, mirroring
// a user invoking the CLI from a scratch folder.
func workDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	return cwd
}

// copySketchSimple writes the canonical sketch_simple fixture under dir and
// returns its path. The fixture has auxiliary files, a src/ subtree, and a
// build/ output tree for two platforms.
func copySketchSimple(t *testing.T, dir string) string {
	t.Helper()

	files := map[string]string{
		"doc.txt":           "documentation\n",
		"header.h":          "#define HEADER 1\n",
		"merged_sketch.txt": "merged output\n",
		"old.pde":           "// legacy file\n",
		"other.ino":         "// secondary source\n",
		"s_file.S":          "nop\n",
		"sketch_simple.ino": "void setup() {}\nvoid loop() {}\n",
		"src/helper.h":      "#define HELPER 1\n",
		"build/vendor.samd.feather_m0/sketch_simple.ino.hex": ":00000001FF\n",
		"build/vendor.samd.feather_m0/sketch_simple.ino.map": "map\n",
		"build/vendor.avr.uno/sketch_simple.ino.eep":                   "eep\n",
		"build/vendor.avr.uno/sketch_simple.ino.hex":                   ":00000001FF\n",
		"build/vendor.avr.uno/sketch_simple.ino.with_bootloader.hex":   ":00000001FF\n",
	}

	root := filepath.Join(dir, "sketch_simple")
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// archiveNames returns the sorted entry names of a zip file.
func archiveNames(t *testing.T, path string) []string {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive %s: %v", path, err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

// verifyExcludesBuildDir checks the canonical expectation for an archive of
// sketch_simple built with the default policy.
func verifyExcludesBuildDir(t *testing.T, names []string) {
	t.Helper()

	for _, want := range []string{
		"sketch_simple/doc.txt",
		"sketch_simple/header.h",
		"sketch_simple/merged_sketch.txt",
		"sketch_simple/old.pde",
		"sketch_simple/other.ino",
		"sketch_simple/s_file.S",
		"sketch_simple/sketch_simple.ino",
		"sketch_simple/src/helper.h",
	} {
		if !contains(names, want) {
			t.Errorf("archive missing %s", want)
		}
	}
	for _, n := range names {
		if strings.HasPrefix(n, "sketch_simple/build/") {
			t.Errorf("archive unexpectedly contains %s", n)
		}
	}
}

// verifyIncludesBuildDir checks the expectation with --include-build-dir.
func verifyIncludesBuildDir(t *testing.T, names []string) {
	t.Helper()

	verifyBase := []string{
		"sketch_simple/sketch_simple.ino",
		"sketch_simple/build/vendor.samd.feather_m0/sketch_simple.ino.hex",
		"sketch_simple/build/vendor.samd.feather_m0/sketch_simple.ino.map",
		"sketch_simple/build/vendor.avr.uno/sketch_simple.ino.eep",
		"sketch_simple/build/vendor.avr.uno/sketch_simple.ino.hex",
		"sketch_simple/build/vendor.avr.uno/sketch_simple.ino.with_bootloader.hex",
	}
	for _, want := range verifyBase {
		if !contains(names, want) {
			t.Errorf("archive missing %s", want)
		}
	}
}
