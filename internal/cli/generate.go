package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frida-labs/devkit/internal/devkit"
	"github.com/frida-labs/devkit/internal/platform"
)

var generateThin bool

func init() {
	generateCmd.Flags().BoolVarP(&generateThin, "thin", "t", false, "Build from the thin (single-architecture) tree")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <kit> <host> <outdir>",
	Short: "Generate a devkit for one kit and host",
	Long: `Merge the kit's static libraries, isolate third-party symbols, flatten its
public headers and write an example program into <outdir>.

Outputs are only written once every step has succeeded.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		result, err := s.assembler().Generate(cmd.Context(), devkit.Request{
			Kit:    args[0],
			Host:   args[1],
			Flavor: platform.FlavorFor(generateThin),
			OutDir: args[2],
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Generated %s devkit for %s in %s\n",
			SuccessStyle.Render("✓"), NameStyle.Render(args[0]), args[1], PathStyle.Render(result.OutDir))
		for _, name := range result.Files() {
			fmt.Fprintf(out, "  %s\n", filepath.Join(result.OutDir, name))
		}
		if !result.Isolated {
			fmt.Fprintf(out, "%s third-party symbols were not renamed (no nm/objcopy for %s)\n", warnMark, args[1])
		} else {
			fmt.Fprintf(out, "  renamed %d third-party symbols (%d public)\n", len(result.Mappings), len(result.Public))
		}
		return nil
	},
}
