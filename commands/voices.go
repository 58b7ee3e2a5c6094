package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices of the configured speech backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		voices, err := voicesFor(cfg.Speech)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(cfg.Speech))
		for i, v := range voices {
			line := string(v)
			if i == 0 {
				line += dimStyle.Render(" (default)")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
