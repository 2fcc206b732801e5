package cli

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/frida-labs/devkit/internal/kit"
)

var kitsJSON bool

func init() {
	kitsCmd.Flags().BoolVar(&kitsJSON, "json", false, "Print the kits as JSON")
	rootCmd.AddCommand(kitsCmd)
}

type kitSummary struct {
	Name     string `json:"name"`
	Package  string `json:"package"`
	Umbrella string `json:"umbrella"`
	Windows  bool   `json:"windows"`
}

func summarizeKits(c *kit.Catalog) []kitSummary {
	summaries := make([]kitSummary, 0, len(c.Kits))
	for _, k := range c.Kits {
		summaries = append(summaries, kitSummary{
			Name:     k.Name,
			Package:  k.Package,
			Umbrella: path.Join(k.Umbrella...),
			Windows:  k.Windows != nil,
		})
	}
	return summaries
}

var kitsCmd = &cobra.Command{
	Use:   "kits",
	Short: "List the kits that can be bundled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		summaries := summarizeKits(s.catalog)
		out := cmd.OutOrStdout()

		if kitsJSON {
			data, err := json.MarshalIndent(summaries, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling kits: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintln(out, SubtitleStyle.Render("Kits:"))
		for _, k := range summaries {
			fmt.Fprintf(out, "  %s %-18s %s\n", NameStyle.Render(fmt.Sprintf("%-14s", k.Name)), k.Package, PathStyle.Render(k.Umbrella))
		}
		return nil
	},
}
