package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botseplag",
	Short: "botseplag bridges WhatsApp to the PFC HR/training API",
	Long:  `botseplag runs the menu-driven chat assistant: users identify with a CPF and navigate a fixed menu for schedule lookup, courses, quotes, contact info, calendar PDFs and amendment summaries.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML configuration file")
}
