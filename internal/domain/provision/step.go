// Package provision implements the sequential, fail-fast provisioning engine.
package provision

import (
	"context"

	"github.com/felixgeelhaar/provision/internal/ports"
)

// Kind identifies which installer a step targets.
type Kind string

const (
	// KindSystemPackage installs a binary via the OS package manager.
	KindSystemPackage Kind = "system-package"
	// KindLanguagePackageSet installs language libraries from a manifest.
	KindLanguagePackageSet Kind = "language-package-set"
)

// Valid reports whether the kind is one of the known step kinds.
func (k Kind) Valid() bool {
	return k == KindSystemPackage || k == KindLanguagePackageSet
}

// InstallStep describes one provisioning action. Steps are immutable values
// constructed at startup and executed in declaration order.
type InstallStep struct {
	// Name is the human-readable label used in logs and failure reports.
	Name string
	// Kind selects the installer capability for this step.
	Kind Kind
	// Target is a package name (system-package) or a manifest path
	// (language-package-set).
	Target string
	// RefreshIndex refreshes the package index before this step's install.
	RefreshIndex bool
	// UpgradeInstaller upgrades the language installer itself before
	// installing from the manifest.
	UpgradeInstaller bool
}

// Status tracks a step through its lifecycle.
type Status string

const (
	// StatusPending means the step has not started.
	StatusPending Status = "pending"
	// StatusRunning means the step is currently executing.
	StatusRunning Status = "running"
	// StatusSucceeded means the step's installer exited cleanly.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the step's installer reported an error.
	StatusFailed Status = "failed"
	// StatusSkipped means the step was not invoked (dry run).
	StatusSkipped Status = "skipped"
)

// SystemInstaller provisions packages through the OS package manager.
type SystemInstaller interface {
	// RefreshIndex refreshes the package index/cache.
	RefreshIndex(ctx context.Context) (ports.CommandResult, error)
	// InstallPackage installs a single system package by name.
	InstallPackage(ctx context.Context, name string) (ports.CommandResult, error)
	// Verify checks that the installed binary resolves on PATH.
	Verify(ctx context.Context, name string) (ports.CommandResult, error)
}

// ManifestInstaller provisions language-level packages from a manifest.
type ManifestInstaller interface {
	// UpgradeSelf upgrades the installer tool to its latest version.
	UpgradeSelf(ctx context.Context) (ports.CommandResult, error)
	// InstallFromManifest installs every package the manifest declares.
	InstallFromManifest(ctx context.Context, path string) (ports.CommandResult, error)
}
