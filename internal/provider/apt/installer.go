// Package apt provisions system packages on Debian/Ubuntu hosts.
package apt

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/provision/internal/domain/provision"
	"github.com/felixgeelhaar/provision/internal/ports"
	"github.com/felixgeelhaar/provision/internal/validation"
)

// Installer runs apt-get with elevated privilege through a CommandRunner.
type Installer struct {
	runner ports.CommandRunner
}

// NewInstaller creates a new apt Installer.
func NewInstaller(runner ports.CommandRunner) *Installer {
	return &Installer{runner: runner}
}

// RefreshIndex refreshes the apt package index.
func (i *Installer) RefreshIndex(ctx context.Context) (ports.CommandResult, error) {
	return i.runner.Run(ctx, "sudo", "apt-get", "update")
}

// InstallPackage installs a single package. Already-installed packages are
// left as-is or upgraded in place; apt-get install is idempotent.
func (i *Installer) InstallPackage(ctx context.Context, name string) (ports.CommandResult, error) {
	// Validate package name before execution to prevent command injection
	if err := validation.ValidatePackageName(name); err != nil {
		return ports.CommandResult{}, fmt.Errorf("invalid package name: %w", err)
	}

	return i.runner.Run(ctx, "sudo", "apt-get", "install", "-y", name)
}

// Verify checks that the installed binary resolves on PATH.
func (i *Installer) Verify(ctx context.Context, name string) (ports.CommandResult, error) {
	if err := validation.ValidatePackageName(name); err != nil {
		return ports.CommandResult{}, fmt.Errorf("invalid package name: %w", err)
	}

	return i.runner.Run(ctx, "which", name)
}

// Ensure Installer implements provision.SystemInstaller.
var _ provision.SystemInstaller = (*Installer)(nil)
