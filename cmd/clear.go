package cmd

import (
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored sheet and any cached PDF text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		current.repo.Clear(cmd.Context())
		current.broker.Info("Sheet cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
