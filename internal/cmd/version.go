package cmd

import (
	"github.com/spf13/cobra"

	"go.symver.io/symver/cmd/state"
)

func getCmdVersion(gs *state.GlobalState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  "Show the version of the currently running symver tool",
		Run: func(cmd *cobra.Command, _ []string) {
			root := cmd.Root()
			root.SetArgs([]string{"--version"})
			_ = root.Execute()
		},
	}
}
