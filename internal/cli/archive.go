package cli

import (
	"fmt"

	"github.com/sketchpack-labs/sketchpack/internal/archive"
	"github.com/sketchpack-labs/sketchpack/internal/config"
	"github.com/spf13/cobra"
)

var archiveIncludeBuildDir bool

var archiveCmd = &cobra.Command{
	Use:   "archive [sketchPath] [archivePath]",
	Short: "Create a zip archive of a sketch",
	Long: `Create a zip archive containing all the files of the specified sketch.

The sketch path defaults to the current directory. The archive path may be a
directory, a directory plus archive name, or a full file name with or without
the .zip extension; it defaults to <sketch name>.zip in the current directory.

Examples:
  sketchpack archive
  sketchpack archive .
  sketchpack archive . MySketchArchive.zip
  sketchpack archive /home/user/Blink /home/user/archives`,
	Args: cobra.MaximumNArgs(2),
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().BoolVar(&archiveIncludeBuildDir, "include-build-dir", false,
		"Include the build directory in the archive")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	var sketchPath, archivePath string
	if len(args) > 0 {
		sketchPath = args[0]
	}
	if len(args) > 1 {
		archivePath = args[1]
	}

	includeBuildDir := archiveIncludeBuildDir
	if !cmd.Flags().Changed("include-build-dir") {
		includeBuildDir = config.GetBool(config.KeyIncludeBuildDir)
	}

	report, err := archive.Run(archive.Request{
		SketchPath:      sketchPath,
		ArchivePath:     archivePath,
		IncludeBuildDir: includeBuildDir,
		CLIVersion:      buildVersion,
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created archive: %s\n", report.ArchivePath)
	return nil
}
