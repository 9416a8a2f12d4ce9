package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/provision/internal/adapters/logging"
	"github.com/felixgeelhaar/provision/internal/app"
	"github.com/felixgeelhaar/provision/internal/domain/provision"
	"github.com/felixgeelhaar/provision/internal/ports"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Install the system and language dependencies",
	Long: `Up runs the provisioning sequence:

1. Refresh the apt index and install ffmpeg
2. Upgrade pip and install the Python dependencies from the manifest

With no flags it runs the built-in sequence against requirements.txt.
The run halts on the first failing step and exits with that step's code.`,
	RunE: runUp,
}

var (
	upConfigPath string
	upManifest   string
	upDryRun     bool
	upVerify     bool
)

type provisionClient interface {
	Steps(configPath, manifest string) ([]provision.InstallStep, error)
	Run(ctx context.Context, steps []provision.InstallStep) ([]provision.StepResult, error)
	WithDryRun(bool) provisionClient
	WithVerify(bool) provisionClient
}

type provisionAdapter struct {
	*app.Provision
}

func (p *provisionAdapter) WithDryRun(dryRun bool) provisionClient {
	return &provisionAdapter{p.Provision.WithDryRun(dryRun)}
}

func (p *provisionAdapter) WithVerify(verify bool) provisionClient {
	return &provisionAdapter{p.Provision.WithVerify(verify)}
}

var newProvision = func(out io.Writer, logger ports.Logger) provisionClient {
	return &provisionAdapter{app.New(out, logger)}
}

func init() {
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().StringVarP(&upConfigPath, "config", "c", "", "path to provision.yaml (default: built-in sequence)")
	upCmd.Flags().StringVarP(&upManifest, "manifest", "m", "requirements.txt", "path to the dependency manifest")
	upCmd.Flags().BoolVar(&upDryRun, "dry-run", false, "show what would be done without making changes")
	upCmd.Flags().BoolVar(&upVerify, "verify", false, "check installed binaries resolve on PATH")
}

func runUp(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	logger := newLogger()
	client := newProvision(os.Stdout, logger)
	if upDryRun {
		client = client.WithDryRun(true)
	}
	if upVerify {
		client = client.WithVerify(true)
	}

	steps, err := client.Steps(upConfigPath, upManifest)
	if err != nil {
		return err
	}

	_, err = client.Run(ctx, steps)
	return err
}

// newLogger builds the logger from the global flags.
func newLogger() ports.Logger {
	opts := []logging.ConsoleLoggerOption{
		logging.WithJSONFormat(jsonLog),
	}
	if verbose {
		opts = append(opts, logging.WithLevel(ports.LevelDebug))
	}
	return logging.NewConsoleLogger(opts...)
}
