package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/provision/internal/ports"
)

// Provisioner executes install steps strictly in declaration order and halts
// on the first failure. It is the sole mutator of the host's package state
// during a run; nothing here is safe to call concurrently.
type Provisioner struct {
	system   SystemInstaller
	language ManifestInstaller
	logger   ports.Logger
	dryRun   bool
	verify   bool
}

// NewProvisioner creates a Provisioner backed by the given installers.
func NewProvisioner(system SystemInstaller, language ManifestInstaller, logger ports.Logger) *Provisioner {
	return &Provisioner{
		system:   system,
		language: language,
		logger:   logger,
	}
}

// WithDryRun returns a Provisioner that logs intended actions without
// invoking any installer.
func (p *Provisioner) WithDryRun(dryRun bool) *Provisioner {
	clone := *p
	clone.dryRun = dryRun
	return &clone
}

// WithVerify returns a Provisioner that checks the installed binary resolves
// on PATH after each system-package step.
func (p *Provisioner) WithVerify(verify bool) *Provisioner {
	clone := *p
	clone.verify = verify
	return &clone
}

// Run executes every step in order. On the first failure it stops, returning
// the results collected so far (the failed step included) and an
// *InstallError describing which phase of the step failed. Later steps are
// never invoked after a failure. Partially applied state is left as-is.
func (p *Provisioner) Run(ctx context.Context, steps []InstallStep) ([]StepResult, error) {
	if err := validateSteps(steps); err != nil {
		return nil, err
	}

	results := make([]StepResult, 0, len(steps))

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		if p.dryRun {
			p.logger.Info(ctx, "would run step",
				ports.F("step", step.Name),
				ports.F("kind", string(step.Kind)),
				ports.F("target", step.Target))
			results = append(results, NewStepResult(step, StatusSkipped, nil))
			continue
		}

		p.logger.Info(ctx, "running step",
			ports.F("step", step.Name),
			ports.F("kind", string(step.Kind)),
			ports.F("target", step.Target))

		start := time.Now()
		last, installErr := p.executeStep(ctx, step)
		duration := time.Since(start)

		if installErr != nil {
			p.logger.Error(ctx, "step failed",
				ports.F("step", step.Name),
				ports.F("phase", string(installErr.Kind)),
				ports.F("exit_code", installErr.ExitCode))
			results = append(results, NewStepResult(step, StatusFailed, installErr).
				WithExitCode(installErr.ExitCode).
				WithOutput(installErr.Output).
				WithDuration(duration))
			return results, installErr
		}

		p.logger.Info(ctx, "step succeeded",
			ports.F("step", step.Name),
			ports.F("duration", duration.Round(time.Millisecond)))
		results = append(results, NewStepResult(step, StatusSucceeded, nil).
			WithExitCode(last.ExitCode).
			WithOutput(last.Output()).
			WithDuration(duration))
	}

	return results, nil
}

// executeStep runs every phase of one step. The returned result is that of
// the last invocation, used for reporting on success.
func (p *Provisioner) executeStep(ctx context.Context, step InstallStep) (ports.CommandResult, *InstallError) {
	switch step.Kind {
	case KindSystemPackage:
		return p.executeSystemStep(ctx, step)
	case KindLanguagePackageSet:
		return p.executeManifestStep(ctx, step)
	default:
		// validateSteps rejects unknown kinds before execution.
		return ports.CommandResult{}, newInstallError(step.Name, SystemPackageInstallFailure, 0, "",
			fmt.Errorf("unknown step kind %q", step.Kind))
	}
}

func (p *Provisioner) executeSystemStep(ctx context.Context, step InstallStep) (ports.CommandResult, *InstallError) {
	if step.RefreshIndex {
		p.logger.Debug(ctx, "refreshing package index", ports.F("step", step.Name))
		result, err := p.system.RefreshIndex(ctx)
		if failure := asFailure(step.Name, IndexRefreshFailure, result, err); failure != nil {
			return result, failure
		}
	}

	result, err := p.system.InstallPackage(ctx, step.Target)
	if failure := asFailure(step.Name, SystemPackageInstallFailure, result, err); failure != nil {
		return result, failure
	}

	if p.verify {
		p.logger.Debug(ctx, "verifying binary on PATH", ports.F("binary", step.Target))
		verifyResult, err := p.system.Verify(ctx, step.Target)
		if failure := asFailure(step.Name, VerificationFailure, verifyResult, err); failure != nil {
			return verifyResult, failure
		}
	}

	return result, nil
}

func (p *Provisioner) executeManifestStep(ctx context.Context, step InstallStep) (ports.CommandResult, *InstallError) {
	if step.UpgradeInstaller {
		p.logger.Debug(ctx, "upgrading installer", ports.F("step", step.Name))
		result, err := p.language.UpgradeSelf(ctx)
		if failure := asFailure(step.Name, InstallerUpgradeFailure, result, err); failure != nil {
			return result, failure
		}
	}

	result, err := p.language.InstallFromManifest(ctx, step.Target)
	if failure := asFailure(step.Name, ManifestInstallFailure, result, err); failure != nil {
		return result, failure
	}

	return result, nil
}

// asFailure converts a tool invocation outcome into an InstallError, or nil
// when the invocation succeeded.
func asFailure(step string, kind FailureKind, result ports.CommandResult, err error) *InstallError {
	if err != nil {
		return newInstallError(step, kind, 0, result.Output(), err)
	}
	if !result.Success() {
		return newInstallError(step, kind, result.ExitCode, result.Output(), nil)
	}
	return nil
}

// validateSteps enforces the input constraints: a non-empty list where every
// step has a known kind and a non-empty target.
func validateSteps(steps []InstallStep) error {
	if len(steps) == 0 {
		return ErrNoSteps
	}
	for _, step := range steps {
		if step.Target == "" {
			return fmt.Errorf("step %q: %w", step.Name, ErrEmptyTarget)
		}
		if !step.Kind.Valid() {
			return fmt.Errorf("step %q: unknown kind %q", step.Name, step.Kind)
		}
	}
	return nil
}
