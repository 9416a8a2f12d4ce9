package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/provision/internal/adapters/logging"
	"github.com/felixgeelhaar/provision/internal/domain/provision"
	"github.com/felixgeelhaar/provision/internal/ports"
	"github.com/felixgeelhaar/provision/internal/testutil/mocks"
)

func newTestApp(t *testing.T, runner ports.CommandRunner) (*Provision, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	return New(&out, logging.NewNopLogger(), WithRunner(runner)), &out
}

func TestSteps_DefaultSequence(t *testing.T) {
	app, _ := newTestApp(t, mocks.NewCommandRunner())

	steps, err := app.Steps("", "requirements.txt")
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, provision.KindSystemPackage, steps[0].Kind)
	assert.Equal(t, "ffmpeg", steps[0].Target)
	assert.True(t, steps[0].RefreshIndex)

	assert.Equal(t, provision.KindLanguagePackageSet, steps[1].Kind)
	assert.Equal(t, "requirements.txt", steps[1].Target)
	assert.True(t, steps[1].UpgradeInstaller)
}

func TestSteps_FromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provision.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
steps:
  - name: install sox
    kind: system-package
    target: sox
`), 0o644))

	app, _ := newTestApp(t, mocks.NewCommandRunner())
	steps, err := app.Steps(path, "")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "sox", steps[0].Target)
}

func TestSteps_ConfigLoadError(t *testing.T) {
	app, _ := newTestApp(t, mocks.NewCommandRunner())
	_, err := app.Steps(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_FullSequenceSucceeds(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("fastapi\n"), 0o644))

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "update"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("sudo", []string{"apt-get", "install", "-y", "ffmpeg"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("pip", []string{"install", "--upgrade", "pip"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("pip", []string{"install", "-r", manifest}, ports.CommandResult{ExitCode: 0})

	app, out := newTestApp(t, runner)
	steps, err := app.Steps("", manifest)
	require.NoError(t, err)

	results, err := app.Run(context.Background(), steps)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Success())
	}

	assert.Contains(t, out.String(), "2/2 steps succeeded")
}

func TestRun_FailureHaltsAndPrintsDiagnostic(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "update"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("sudo", []string{"apt-get", "install", "-y", "ffmpeg"},
		ports.CommandResult{ExitCode: 100, Stderr: "E: Could not get lock /var/lib/dpkg/lock"})

	app, out := newTestApp(t, runner)
	steps, err := app.Steps("", "requirements.txt")
	require.NoError(t, err)

	results, err := app.Run(context.Background(), steps)
	require.Error(t, err)

	var installErr *provision.InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, provision.SystemPackageInstallFailure, installErr.Kind)
	assert.Equal(t, 100, installErr.ExitCode)

	// Only the failed step ran; the manifest step never started.
	require.Len(t, results, 1)
	for _, call := range runner.Calls() {
		assert.NotEqual(t, "pip", call.Command, "pip must not run after apt failure")
	}

	assert.Contains(t, out.String(), "E: Could not get lock /var/lib/dpkg/lock")
}

func TestRun_DryRunInvokesNothing(t *testing.T) {
	runner := mocks.NewCommandRunner()
	app, out := newTestApp(t, runner)

	steps, err := app.Steps("", "requirements.txt")
	require.NoError(t, err)

	results, err := app.WithDryRun(true).Run(context.Background(), steps)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Skipped())
	}
	assert.Empty(t, runner.Calls())
	assert.Contains(t, out.String(), "skipped")
}

func TestRun_VerifyChecksBinary(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("fastapi\n"), 0o644))

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "update"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("sudo", []string{"apt-get", "install", "-y", "ffmpeg"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("which", []string{"ffmpeg"}, ports.CommandResult{ExitCode: 0, Stdout: "/usr/bin/ffmpeg"})
	runner.AddResult("pip", []string{"install", "--upgrade", "pip"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("pip", []string{"install", "-r", manifest}, ports.CommandResult{ExitCode: 0})

	app, _ := newTestApp(t, runner)
	steps, err := app.Steps("", manifest)
	require.NoError(t, err)

	_, err = app.WithVerify(true).Run(context.Background(), steps)
	require.NoError(t, err)

	verified := false
	for _, call := range runner.Calls() {
		if call.Command == "which" {
			verified = true
		}
	}
	assert.True(t, verified, "verify call should be observed")
}

func TestPrintResults_EmptyIsSilent(t *testing.T) {
	app, out := newTestApp(t, mocks.NewCommandRunner())
	app.PrintResults(nil)
	assert.Empty(t, out.String())
}
