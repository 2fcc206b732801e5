package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frida-labs/devkit/internal/platform"
)

var (
	planThin   bool
	planPublic bool
)

func init() {
	planCmd.Flags().BoolVarP(&planThin, "thin", "t", false, "Use the thin (single-architecture) toolchain")
	planCmd.Flags().BoolVar(&planPublic, "public", false, "Only list renames mirrored into the header")
	rootCmd.AddCommand(planCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan <archive> <host>",
	Short: "Show the symbol renames isolating an archive would apply",
	Long: `List the defined symbols of <archive> with the host's nm and print the
rename each third-party symbol would get. The archive is not modified.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		a := s.assembler()
		mappings, err := a.PlanIsolation(cmd.Context(), args[0], args[1], platform.FlavorFor(planThin))
		if err != nil {
			return err
		}
		if planPublic {
			mappings = a.Policy().Public(mappings)
		}

		out := cmd.OutOrStdout()
		for _, m := range mappings {
			fmt.Fprintf(out, "%s %s\n", m.Original, m.Renamed)
		}
		s.logger.Info("planned renames", "archive", args[0], "count", len(mappings))
		return nil
	},
}
