package cmd

import (
	"fmt"
	"os"

	"playlister/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "playlister",
	Short: "Playlister is a playlist management web service.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
