package main

import (
	"github.com/spf13/cobra"

	"github.com/coldog/bundle/internal/bundlelog"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "bundledemo",
	Short: "Run the bundling core over a directory and print the bundle graph",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		bundlelog.SetVerbose(flagVerbose)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every pass at debug level")
	rootCmd.AddCommand(newBuildCmd())
}

func newRootCmd() *cobra.Command {
	return rootCmd
}
