/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command virtualstore serves the in-memory virtual datastore over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configFile is set by the --config flag.
var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "virtualstore",
	Short: "In-memory multi-store entity datastore",
	Long: `virtualstore keeps schemaless entity records in named in-memory stores,
imports data from JSON, URLs and DynamoDB tables, and joins entity types
on a shared key.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (optional)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
