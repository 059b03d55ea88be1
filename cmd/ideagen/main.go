package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "ideagen",
		Short:         "Senior design project idea generator",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "Storage backend: memory, file, redis, postgres (default file)")
	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data", "", "State file for the file backend")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log to stderr")

	rootCmd.AddCommand(generateCmd(opts))
	rootCmd.AddCommand(listCmd(opts))
	rootCmd.AddCommand(showCmd(opts))
	rootCmd.AddCommand(exportCmd(opts))
	rootCmd.AddCommand(importCmd(opts))
	rootCmd.AddCommand(clearCmd(opts))
	rootCmd.AddCommand(settingsCmd(opts))
	rootCmd.AddCommand(statusCmd(opts))

	return rootCmd
}
