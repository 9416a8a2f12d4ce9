package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	jsonLog bool
)

var rootCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision the runtime environment for the analysis backend",
	Long: `Provision installs the backend's runtime dependencies: the ffmpeg
system binary via apt and the Python libraries declared in the
requirements manifest via pip.

Steps run strictly in order and the run halts on the first failure;
re-running on an already provisioned host is safe.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "log as JSON lines")

	rootCmd.AddCommand(versionCmd)
}

// printError prints an error message to stderr.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", err.Error())
}
