package provision

import (
	"errors"
	"fmt"
)

// FailureKind classifies which phase of a step failed.
type FailureKind string

const (
	// IndexRefreshFailure means refreshing the package index failed.
	IndexRefreshFailure FailureKind = "index-refresh"
	// SystemPackageInstallFailure means the OS package manager failed.
	SystemPackageInstallFailure FailureKind = "system-package-install"
	// InstallerUpgradeFailure means upgrading the language installer failed.
	InstallerUpgradeFailure FailureKind = "installer-upgrade"
	// ManifestInstallFailure means installing from the manifest failed.
	ManifestInstallFailure FailureKind = "manifest-install"
	// VerificationFailure means the post-install check did not find the binary.
	VerificationFailure FailureKind = "verification"
)

// Sentinel errors for step list validation.
var (
	ErrNoSteps     = errors.New("step list must not be empty")
	ErrEmptyTarget = errors.New("step target must not be empty")
)

// InstallError reports a single failed install step. The underlying tool's
// diagnostic output is carried through unmodified so the operator can see
// the package manager's own error.
type InstallError struct {
	Step     string
	Kind     FailureKind
	ExitCode int
	Output   string
	Err      error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed (%s): %v", e.Step, e.Kind, e.Err)
	}
	if e.Output != "" {
		return fmt.Sprintf("%s failed (%s, exit %d): %s", e.Step, e.Kind, e.ExitCode, e.Output)
	}
	return fmt.Sprintf("%s failed (%s, exit %d)", e.Step, e.Kind, e.ExitCode)
}

// Unwrap returns the underlying error, if any.
func (e *InstallError) Unwrap() error {
	return e.Err
}

// newInstallError builds an InstallError from a tool invocation outcome.
func newInstallError(step string, kind FailureKind, exitCode int, output string, err error) *InstallError {
	return &InstallError{
		Step:     step,
		Kind:     kind,
		ExitCode: exitCode,
		Output:   output,
		Err:      err,
	}
}
