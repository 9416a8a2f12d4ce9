// Package main provides the entry point for the provision CLI.
package main

import (
	"errors"
	"os"

	"github.com/felixgeelhaar/provision/internal/domain/provision"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode propagates the failing tool's exit code when one exists,
// falling back to 1 (e.g. the tool could not be spawned at all).
func exitCode(err error) int {
	var installErr *provision.InstallError
	if errors.As(err, &installErr) && installErr.ExitCode != 0 {
		return installErr.ExitCode
	}
	return 1
}
