package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gca",
		Short: "Gaussian cellular automaton simulator",
		Long: `gca simulates a continuous-valued cellular automaton whose cells grow when
their neighbourhood sum is close to 3 and decay by a threshold x every step.

It can sweep x over a range, running many independent trials per value and
reporting the mean and spread of the final grid occupancy, or advance a
single grid under a fixed x.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, trace, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSweepCmd(),
		newRunCmd(),
		newConfigCmd(),
	)
	return rootCmd
}
