package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/cpgen/cmd/cpgen"
)

func main() {
	rootCmd := cpgen.NewRootCmd()

	if err := doc.GenMan(rootCmd, cpgen.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
