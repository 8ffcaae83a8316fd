package main

import (
	"errors"
	"fmt"
	"os"
)

var (
	version = "dev"
)

// Entry point for the application
func main() {
	if err := NewRootCmd().Execute(); err != nil {
		// A cancelled pick is reported through the exit status only
		if !errors.Is(err, errCancelled) {
			fmt.Fprintln(os.Stderr, errorText(fmt.Sprintf("Error: %v", err)))
		}
		os.Exit(1)
	}
}
