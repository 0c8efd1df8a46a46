// Package cmd wires the verification engine, config loader, watch mode,
// and interactive dashboard into a cobra CLI, in the shape of the
// teacher's own cmd/root.go (minus the shell-completion auto-install
// machinery, which has no SPEC_FULL.md component to serve).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ololoshechkin/plugin-verifier/internal/errs"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "binverify",
	Short: "Binary compatibility verifier for a JVM plugin ecosystem",
	Long: `binverify statically analyzes every bytecode reference a compiled
plugin makes into its host IDE, the JDK, and its declared plugin
dependencies, and reports every reference that would fail at
load/link/invocation time.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errs.IsCode(err, errs.CodeCancelled) {
			os.Exit(130) // SIGINT-style exit code
		}
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a verifier.toml config file")
}
