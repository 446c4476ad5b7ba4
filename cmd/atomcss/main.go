// Package main provides the atomcss CLI: it extracts style props from
// JSX/TSX sources into atomic stylesheets and lints what stays behind.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
