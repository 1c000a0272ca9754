package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alujo/server"
)

var rootCmd = &cobra.Command{
	Use:   "alujo",
	Short: "Alujo is a music streaming backend.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
