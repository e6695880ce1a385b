package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/sketchpack-labs/sketchpack/internal/sketch"
)

//go:embed templates
var templateFS embed.FS

// Data holds the template variables available to sketch templates.
type Data struct {
	Name    string // sketch name, e.g., "Blink"
	Version string // starter metadata version
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
}

// Create generates a new sketch skeleton at path. The final path segment is
// the sketch name; a trailing .ino extension on the argument is stripped, so
// "Blink" and "Blink.ino" both create a directory named Blink containing
// Blink.ino. An existing non-empty target directory is refused.
func Create(path string) (*Result, error) {
	path = strings.TrimSuffix(path, sketch.MainFileExtension)
	if path == "" {
		return nil, fmt.Errorf("sketch name cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving sketch path %s: %w", path, err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating sketch directory %s: %w", abs, err)
	}

	// Check for existing files to prevent accidental overwrites.
	existing, err := os.ReadDir(abs)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("sketch directory %s is not empty; remove existing files first", abs)
	}

	data := &Data{
		Name:    filepath.Base(abs),
		Version: "0.1.0",
	}

	result := &Result{OutputDir: abs}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplBytes, err := fs.ReadFile(templateFS, filepath.Join("templates", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", entry.Name(), err)
		}

		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		outName := outputName(entry.Name(), data.Name)
		outPath := filepath.Join(abs, outName)
		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	return result, nil
}

// outputName maps a template file name to its generated name: the .tmpl
// suffix is stripped, and the main-file template takes the sketch's name.
func outputName(templateName, sketchName string) string {
	name := strings.TrimSuffix(templateName, ".tmpl")
	if name == "sketch"+sketch.MainFileExtension {
		return sketchName + sketch.MainFileExtension
	}
	return name
}
