package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set by goreleaser.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("binverify version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
