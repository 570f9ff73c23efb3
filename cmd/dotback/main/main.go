package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dotback/cmd/dotback"
	"github.com/arthur-debert/dotback/pkg/style"
)

func main() {
	rootCmd := dotback.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Show the full help for the command that failed
		fmt.Fprintln(os.Stderr)
		_ = rootCmd.Help()

		os.Exit(1)
	}
}
