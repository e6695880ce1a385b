//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sketchpack-labs/sketchpack/internal/archive"
	"github.com/sketchpack-labs/sketchpack/internal/scaffold"
)

func TestArchiveNoArgs(t *testing.T) {
	cwd := workDir(t)
	sketchDir := copySketchSimple(t, cwd)
	t.Chdir(sketchDir)

	var diag bytes.Buffer
	report, err := archive.Run(archive.Request{CLIVersion: "1.0.0"}, &diag)
	if err != nil {
		t.Fatalf("archive.Run: %v", err)
	}

	verifyExcludesBuildDir(t, archiveNames(t, report.ArchivePath))
}

func TestArchiveDotArg(t *testing.T) {
	cwd := workDir(t)
	sketchDir := copySketchSimple(t, cwd)
	t.Chdir(sketchDir)

	var diag bytes.Buffer
	report, err := archive.Run(archive.Request{SketchPath: ".", CLIVersion: "1.0.0"}, &diag)
	if err != nil {
		t.Fatalf("archive.Run: %v", err)
	}

	verifyExcludesBuildDir(t, archiveNames(t, report.ArchivePath))
}

func TestArchiveRelativeZipPath(t *testing.T) {
	cwd := workDir(t)
	sketchDir := copySketchSimple(t, cwd)
	archivesDir := filepath.Join(cwd, "my_archives")
	if err := os.Mkdir(archivesDir, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(sketchDir)

	var diag bytes.Buffer
	report, err := archive.Run(archive.Request{
		SketchPath:  ".",
		ArchivePath: filepath.Join("..", "my_archives"),
		CLIVersion:  "1.0.0",
	}, &diag)
	if err != nil {
		t.Fatalf("archive.Run: %v", err)
	}

	want := filepath.Join(archivesDir, "sketch_simple.zip")
	if report.ArchivePath != want {
		t.Fatalf("ArchivePath = %q, want %q", report.ArchivePath, want)
	}
	verifyExcludesBuildDir(t, archiveNames(t, report.ArchivePath))
}

func TestArchiveAbsoluteZipPathAndCustomName(t *testing.T) {
	cwd := workDir(t)
	sketchDir := copySketchSimple(t, cwd)
	archivesDir := filepath.Join(cwd, "my_archives")
	if err := os.Mkdir(archivesDir, 0755); err != nil {
		t.Fatal(err)
	}

	// With and without the .zip extension, the custom name resolves to the
	// same archive path.
	for _, dest := range []string{
		filepath.Join(archivesDir, "my_custom_sketch"),
		filepath.Join(archivesDir, "my_custom_sketch.zip"),
	} {
		var diag bytes.Buffer
		report, err := archive.Run(archive.Request{
			SketchPath:  sketchDir,
			ArchivePath: dest,
			CLIVersion:  "1.0.0",
		}, &diag)
		if err != nil {
			t.Fatalf("archive.Run(%q): %v", dest, err)
		}

		want := filepath.Join(archivesDir, "my_custom_sketch.zip")
		if report.ArchivePath != want {
			t.Fatalf("ArchivePath = %q, want %q", report.ArchivePath, want)
		}
		verifyExcludesBuildDir(t, archiveNames(t, report.ArchivePath))

		if err := os.Remove(want); err != nil {
			t.Fatal(err)
		}
	}
}

func TestArchiveRelativeSketchPath(t *testing.T) {
	cwd := workDir(t)
	copySketchSimple(t, cwd)

	var diag bytes.Buffer
	report, err := archive.Run(archive.Request{
		SketchPath: "./sketch_simple",
		CLIVersion: "1.0.0",
	}, &diag)
	if err != nil {
		t.Fatalf("archive.Run: %v", err)
	}

	want := filepath.Join(cwd, "sketch_simple.zip")
	if report.ArchivePath != want {
		t.Fatalf("ArchivePath = %q, want %q", report.ArchivePath, want)
	}
	verifyExcludesBuildDir(t, archiveNames(t, report.ArchivePath))
}

func TestArchiveIncludeBuildDir(t *testing.T) {
	cwd := workDir(t)
	sketchDir := copySketchSimple(t, cwd)

	var diag bytes.Buffer
	report, err := archive.Run(archive.Request{
		SketchPath:      sketchDir,
		IncludeBuildDir: true,
		CLIVersion:      "1.0.0",
	}, &diag)
	if err != nil {
		t.Fatalf("archive.Run: %v", err)
	}

	verifyIncludesBuildDir(t, archiveNames(t, report.ArchivePath))
}

func TestArchiveEmitsDeprecationWarnings(t *testing.T) {
	cwd := workDir(t)
	sketchDir := copySketchSimple(t, cwd)

	var diag bytes.Buffer
	if _, err := archive.Run(archive.Request{
		SketchPath: sketchDir,
		CLIVersion: "1.0.0",
	}, &diag); err != nil {
		t.Fatalf("archive.Run: %v", err)
	}

	if !strings.Contains(diag.String(), "old.pde") {
		t.Errorf("diagnostics missing old.pde deprecation warning: %q", diag.String())
	}
}

func TestNewSketch(t *testing.T) {
	cwd := workDir(t)

	result, err := scaffold.Create("SketchNewIntegrationTest")
	if err != nil {
		t.Fatalf("scaffold.Create: %v", err)
	}

	want := filepath.Join(cwd, "SketchNewIntegrationTest")
	if result.OutputDir != want {
		t.Fatalf("OutputDir = %q, want %q", result.OutputDir, want)
	}
	if _, err := os.Stat(filepath.Join(want, "SketchNewIntegrationTest.ino")); err != nil {
		t.Errorf("main file not created: %v", err)
	}
}

func TestNewSketchAbsoluteAndSubpath(t *testing.T) {
	cwd := workDir(t)

	// Absolute path.
	abs := filepath.Join(cwd, "SketchNewIntegrationTestAbsolute")
	if _, err := scaffold.Create(abs); err != nil {
		t.Fatalf("scaffold.Create: %v", err)
	}
	if _, err := os.Stat(filepath.Join(abs, "SketchNewIntegrationTestAbsolute.ino")); err != nil {
		t.Errorf("main file not created: %v", err)
	}

	// Relative subpath.
	if _, err := scaffold.Create(filepath.Join("subpath", "SketchNewIntegrationTestSubpath")); err != nil {
		t.Fatalf("scaffold.Create: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cwd, "subpath", "SketchNewIntegrationTestSubpath", "SketchNewIntegrationTestSubpath.ino")); err != nil {
		t.Errorf("main file not created: %v", err)
	}
}

func TestNewSketchDotIno(t *testing.T) {
	cwd := workDir(t)

	if _, err := scaffold.Create("SketchNewIntegrationTestDotIno.ino"); err != nil {
		t.Fatalf("scaffold.Create: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cwd, "SketchNewIntegrationTestDotIno", "SketchNewIntegrationTestDotIno.ino")); err != nil {
		t.Errorf("main file not created: %v", err)
	}
}

func TestNewThenArchiveRoundTrip(t *testing.T) {
	cwd := workDir(t)

	if _, err := scaffold.Create("Blink"); err != nil {
		t.Fatalf("scaffold.Create: %v", err)
	}

	var diag bytes.Buffer
	report, err := archive.Run(archive.Request{
		SketchPath: filepath.Join(cwd, "Blink"),
		CLIVersion: "1.0.0",
	}, &diag)
	if err != nil {
		t.Fatalf("archive.Run: %v", err)
	}

	names := archiveNames(t, report.ArchivePath)
	if !contains(names, "Blink/Blink.ino") || !contains(names, "Blink/sketch.yaml") {
		t.Errorf("archive entries = %v", names)
	}
	if diag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %q", diag.String())
	}
}
