package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags "-X main.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of botseplag",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("botseplag version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
