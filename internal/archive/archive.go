package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sketchpack-labs/sketchpack/internal/sketch"
)

// Request describes one archive operation.
type Request struct {
	SketchPath      string // sketch directory or main file; "" means the working directory
	ArchivePath     string // destination directory or directory+name; "" means the working directory
	IncludeBuildDir bool
	CLIVersion      string // running CLI version, checked against sketch.yaml min_cli_version
}

// Report describes a completed archive operation.
type Report struct {
	Sketch         *sketch.Sketch
	ArchivePath    string // absolute path of the written archive
	CreatedDestDir bool
}

// Run performs one resolve → validate → build pipeline. Warnings (deprecated
// extensions, metadata issues) are written to diag as they are collected, so
// they reach the user before any terminal failure message. No archive file
// is written or left behind unless the whole pipeline succeeds.
//
// The destination path is resolved only after the sketch has been validated,
// so a bad destination is never reported for an invalid sketch.
func Run(req Request, diag io.Writer) (*Report, error) {
	sk, warnings, err := sketch.New(req.SketchPath)
	for _, w := range warnings {
		fmt.Fprintln(diag, "Warning:", w)
	}
	if err != nil {
		return nil, err
	}

	reportMetadataWarnings(sk, req.CLIVersion, diag)

	target, err := ResolveTarget(req.ArchivePath, sk.Name)
	if err != nil {
		return nil, err
	}

	path, createdDest, err := Build(sk, target, req.IncludeBuildDir)
	if createdDest {
		fmt.Fprintf(diag, "Created destination directory: %s\n", target.DestinationDir)
	}
	if err != nil {
		return nil, err
	}

	return &Report{
		Sketch:         sk,
		ArchivePath:    path,
		CreatedDestDir: createdDest,
	}, nil
}

// reportMetadataWarnings surfaces sketch.yaml problems as warnings. Metadata
// is advisory: a broken or incompatible sketch.yaml never blocks archiving.
// The file is read once and its bytes shared between parsing and validation.
func reportMetadataWarnings(sk *sketch.Sketch, cliVersion string, diag io.Writer) {
	path := filepath.Join(sk.FullPath, sketch.MetadataFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		fmt.Fprintf(diag, "Warning: reading %s: %v\n", sketch.MetadataFile, err)
		return
	}

	md, err := sketch.ParseMetadata(data)
	if err != nil {
		fmt.Fprintln(diag, "Warning:", err)
		return
	}

	if w := md.CheckCLIVersion(cliVersion); w != "" {
		fmt.Fprintln(diag, "Warning:", w)
	}

	result, err := sketch.ValidateMetadata(data)
	if err != nil {
		fmt.Fprintf(diag, "Warning: could not validate %s: %v\n", sketch.MetadataFile, err)
		return
	}
	if result != nil && !result.Valid {
		for _, issue := range result.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			fmt.Fprintf(diag, "Warning: %s: %s\n", sketch.MetadataFile, msg)
		}
	}
}
