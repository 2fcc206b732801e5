package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frida-labs/devkit/internal/header"
)

var (
	flattenUniverse string
	flattenExtra    []string
)

func init() {
	flattenCmd.Flags().StringVar(&flattenUniverse, "universe", "", "File listing the headers that may be inlined, one per line")
	flattenCmd.Flags().StringSliceVar(&flattenExtra, "extra", nil, "Additional root headers ingested after the umbrella")
	_ = flattenCmd.MarkFlagRequired("universe")
	rootCmd.AddCommand(flattenCmd)
}

var flattenCmd = &cobra.Command{
	Use:   "flatten <umbrella>",
	Short: "Inline an umbrella header's includes into one header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		universe, err := readUniverse(flattenUniverse)
		if err != nil {
			return err
		}

		f := &header.Flattener{Universe: universe}
		text, err := f.Flatten(args[0], flattenExtra...)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func readUniverse(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading universe: %w", err)
	}

	var universe []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			universe = append(universe, line)
		}
	}
	return universe, nil
}
