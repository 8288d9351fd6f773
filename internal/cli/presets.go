package cli

import (
	"fmt"
	"strings"

	"github.com/girijashankarj/garry-ocd-boilerplate/internal/options"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the feature presets accepted by --preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := options.Presets()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range list {
				fmt.Fprintf(out, "%-15s %s\n", p.Name, p.Description)
				fmt.Fprintf(out, "%-15s %s\n", "", strings.Join(p.Expansion(), " "))
			}
			return nil
		},
	}
}
