// Package main provides the entry point for the passgate sale node and its
// operator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	nodeURL    string
)

var rootCmd = &cobra.Command{
	Use:   "passgate",
	Short: "Pass sale node and operator CLI",
	Long: `passgate runs a local pass-sale node hosting the configured product
lines (SeedPass, TreePass, SolarPass, ComputePass by default) and exposes
them over JSON-RPC. The remaining subcommands are thin RPC clients for
minters and operators.`,
	Version: Version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (JSON)")
	rootCmd.PersistentFlags().StringVar(&nodeURL, "node", "http://127.0.0.1:8711", "node RPC endpoint")
}
