package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/frida-labs/devkit/internal/devkit"
	"github.com/frida-labs/devkit/internal/platform"
)

var doctorThin bool

func init() {
	doctorCmd.Flags().BoolVarP(&doctorThin, "thin", "t", false, "Check the thin (single-architecture) tree")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor <host>",
	Short: "Check the toolchain a host's devkits are built with",
	Long: `Resolve the toolchain for <host> and report which tools were found, how
archives would be merged and whether third-party symbols would be renamed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		d, err := s.assembler().Diagnose(cmd.Context(), args[0], platform.FlavorFor(doctorThin))
		if err != nil {
			return err
		}

		renderDiagnosis(cmd.OutOrStdout(), d)
		if !d.OK() {
			return &ExitError{Code: ExitToolchain, Err: fmt.Errorf("toolchain for %s is incomplete", d.Host)}
		}
		return nil
	},
}

func renderDiagnosis(w io.Writer, d *devkit.Diagnosis) {
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Toolchain for"), NameStyle.Render(d.Host.String()))
	for _, c := range d.Checks {
		mark := okMark
		if !c.OK {
			mark = failMark
		}
		fmt.Fprintf(w, "  %s %-10s %s\n", mark, c.Name, PathStyle.Render(c.Detail))
	}

	if d.Merger != "" {
		fmt.Fprintf(w, "  %s merge      %s\n", okMark, d.Merger)
	}
	if d.Isolation {
		fmt.Fprintf(w, "  %s isolation  third-party symbols will be renamed\n", okMark)
	} else {
		fmt.Fprintf(w, "  %s isolation  skipped, the toolchain has no nm/objcopy\n", warnMark)
	}
}
