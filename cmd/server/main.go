// Package main is the entry point for the progression server and its tools
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-progression/cmd/server/client"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rpg-progression",
	Short: "D&D 5e character progression gRPC server",
	Long: `rpg-progression levels characters up one validated step at a time and
tracks their limited-use resources, hit dice and rests.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
