package main

import (
	"os"

	"github.com/arthur-debert/cpgen/cmd/cpgen"
	"github.com/arthur-debert/cpgen/pkg/ui"
)

func main() {
	rootCmd := cpgen.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// "Error [stage]: message", red on terminals
		ui.NewPrinter(os.Stderr, os.Stderr, ui.FormatAuto).Error(err)
		os.Exit(1)
	}
}
