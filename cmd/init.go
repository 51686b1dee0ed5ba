package cmd

import (
	"log"

	"github.com/josephlewis42/dosh/core/config"
	"github.com/spf13/cobra"
)

// initCmd intializes the configuration directory
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Initialize the configuration in the --config directory or DIR.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		dir := cfgPath
		if len(args) == 1 {
			dir = args[0]
		}

		_, err := config.Initialize(dir, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
