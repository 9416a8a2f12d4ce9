// Package pip provisions Python packages from a requirements manifest.
package pip

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/provision/internal/domain/provision"
	"github.com/felixgeelhaar/provision/internal/ports"
	"github.com/felixgeelhaar/provision/internal/validation"
)

// Installer runs pip through a CommandRunner.
type Installer struct {
	runner ports.CommandRunner
}

// NewInstaller creates a new pip Installer.
func NewInstaller(runner ports.CommandRunner) *Installer {
	return &Installer{runner: runner}
}

// UpgradeSelf upgrades pip itself to the latest version.
func (i *Installer) UpgradeSelf(ctx context.Context) (ports.CommandResult, error) {
	return i.runner.Run(ctx, "pip", "install", "--upgrade", "pip")
}

// InstallFromManifest installs every requirement the manifest declares.
// The manifest must exist; its line format is owned by pip.
func (i *Installer) InstallFromManifest(ctx context.Context, path string) (ports.CommandResult, error) {
	if err := validation.ValidateManifestPath(path); err != nil {
		return ports.CommandResult{}, fmt.Errorf("invalid manifest path: %w", err)
	}

	if _, err := os.Stat(path); err != nil {
		return ports.CommandResult{}, fmt.Errorf("manifest not found: %w", err)
	}

	return i.runner.Run(ctx, "pip", "install", "-r", path)
}

// Ensure Installer implements provision.ManifestInstaller.
var _ provision.ManifestInstaller = (*Installer)(nil)
