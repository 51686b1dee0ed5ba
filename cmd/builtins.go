package cmd

import (
	"fmt"

	"github.com/josephlewis42/dosh/commands"
	"github.com/josephlewis42/dosh/core/shell"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands available without a search path entry.
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the internal and C: commands.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range shell.BuiltinNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}

		for _, name := range commands.ListCommands() {
			fmt.Fprintln(cmd.OutOrStdout(), commands.Device+name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
