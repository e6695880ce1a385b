package cli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sketchpack-labs/sketchpack/internal/scaffold"
	"github.com/sketchpack-labs/sketchpack/internal/sketch"
	"github.com/spf13/cobra"
)

// Sketch names may contain letters, digits, dots, dashes, and underscores.
// Path separators are allowed so sketches can be created in subdirectories.
var sketchNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var newCmd = &cobra.Command{
	Use:   "new <sketchName>",
	Short: "Create a new sketch skeleton",
	Long: `Create a new sketch: a directory named after the sketch containing a stub
main file and a starter sketch.yaml.

The name may be a plain name, a relative or absolute path, or end with the
.ino extension (which is stripped).

Examples:
  sketchpack new Blink
  sketchpack new sketches/Blink
  sketchpack new Blink.ino`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := strings.TrimSuffix(filepath.Base(args[0]), sketch.MainFileExtension)
		if !sketchNamePattern.MatchString(base) {
			return fmt.Errorf("invalid sketch name %q: may only contain letters, digits, dots, dashes, and underscores", base)
		}

		result, err := scaffold.Create(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Sketch created in: %s\n", result.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
