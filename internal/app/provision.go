// Package app wires the adapters and providers into the provisioning engine.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/felixgeelhaar/provision/internal/adapters/command"
	"github.com/felixgeelhaar/provision/internal/domain/config"
	"github.com/felixgeelhaar/provision/internal/domain/provision"
	"github.com/felixgeelhaar/provision/internal/ports"
	"github.com/felixgeelhaar/provision/internal/provider/apt"
	"github.com/felixgeelhaar/provision/internal/provider/pip"
)

// Provision is the main application orchestrator.
type Provision struct {
	provisioner *provision.Provisioner
	out         io.Writer
}

// Option configures the application.
type Option func(*settings)

type settings struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// WithRunner overrides the command runner (used by tests).
func WithRunner(runner ports.CommandRunner) Option {
	return func(s *settings) {
		s.runner = runner
	}
}

// New creates a new Provision application writing reports to out.
func New(out io.Writer, logger ports.Logger, opts ...Option) *Provision {
	s := &settings{
		runner: command.NewRealRunner(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	system := apt.NewInstaller(s.runner)
	language := pip.NewInstaller(s.runner)

	return &Provision{
		provisioner: provision.NewProvisioner(system, language, s.logger),
		out:         out,
	}
}

// WithDryRun returns a Provision that simulates the run without installing.
func (p *Provision) WithDryRun(dryRun bool) *Provision {
	return &Provision{
		provisioner: p.provisioner.WithDryRun(dryRun),
		out:         p.out,
	}
}

// WithVerify returns a Provision that verifies system binaries after install.
func (p *Provision) WithVerify(verify bool) *Provision {
	return &Provision{
		provisioner: p.provisioner.WithVerify(verify),
		out:         p.out,
	}
}

// Steps resolves the step list: the config file when present, otherwise the
// built-in default sequence.
func (p *Provision) Steps(configPath, manifest string) ([]provision.InstallStep, error) {
	if configPath == "" {
		return config.Default(manifest).InstallSteps(), nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.InstallSteps(), nil
}

// Run executes the steps and prints a result summary. The returned results
// always cover every step that ran, including a failed final step.
func (p *Provision) Run(ctx context.Context, steps []provision.InstallStep) ([]provision.StepResult, error) {
	results, err := p.provisioner.Run(ctx, steps)
	p.PrintResults(results)
	return results, err
}

// PrintResults outputs a human-readable run summary.
func (p *Provision) PrintResults(results []provision.StepResult) {
	if len(results) == 0 {
		return
	}

	p.printf("\n%s\n", styleHeader.Render("Provisioning results"))

	succeeded := 0
	for _, r := range results {
		switch {
		case r.Success():
			succeeded++
			p.printf("  %s %s (%s)\n", styleSuccess.Render("✓"), r.Step().Name, r.Duration().Round(10*time.Millisecond))
		case r.Skipped():
			p.printf("  %s %s (skipped)\n", styleSkipped.Render("~"), r.Step().Name)
		default:
			p.printf("  %s %s (exit %d)\n", styleFailure.Render("✗"), r.Step().Name, r.ExitCode())
			if r.Output() != "" {
				// Pass the tool's diagnostic through unmodified.
				p.printf("\n%s\n", r.Output())
			}
		}
	}

	p.printf("\n%d/%d steps succeeded\n", succeeded, len(results))
}

func (p *Provision) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}
