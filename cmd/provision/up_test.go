package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/provision/internal/domain/provision"
	"github.com/felixgeelhaar/provision/internal/ports"
)

// fakeProvisionClient records the calls runUp makes.
type fakeProvisionClient struct {
	steps    []provision.InstallStep
	stepsErr error
	results  []provision.StepResult
	runErr   error

	ranSteps []provision.InstallStep
	dryRun   bool
	verify   bool
}

func (f *fakeProvisionClient) Steps(_, _ string) ([]provision.InstallStep, error) {
	return f.steps, f.stepsErr
}

func (f *fakeProvisionClient) Run(_ context.Context, steps []provision.InstallStep) ([]provision.StepResult, error) {
	f.ranSteps = steps
	return f.results, f.runErr
}

func (f *fakeProvisionClient) WithDryRun(dryRun bool) provisionClient {
	f.dryRun = dryRun
	return f
}

func (f *fakeProvisionClient) WithVerify(verify bool) provisionClient {
	f.verify = verify
	return f
}

func overrideNewProvision(fake provisionClient) func() {
	original := newProvision
	newProvision = func(_ io.Writer, _ ports.Logger) provisionClient {
		return fake
	}
	return func() {
		newProvision = original
	}
}

func resetUpFlags() {
	upConfigPath = ""
	upManifest = "requirements.txt"
	upDryRun = false
	upVerify = false
}

func TestUpCmd_FlagDefaults(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		expected string
	}{
		{"config default", "config", ""},
		{"manifest default", "manifest", "requirements.txt"},
		{"dry-run default", "dry-run", "false"},
		{"verify default", "verify", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := upCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.expected, f.DefValue)
		})
	}
}

func TestUpCmd_IsSubcommandOfRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "up" {
			found = true
			break
		}
	}
	assert.True(t, found, "up should be a subcommand of root")
}

func TestVersionCmd_IsSubcommandOfRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "version" {
			found = true
			break
		}
	}
	assert.True(t, found, "version should be a subcommand of root")
}

func TestRunUp_Success(t *testing.T) {
	resetUpFlags()
	steps := []provision.InstallStep{
		{Name: "install ffmpeg", Kind: provision.KindSystemPackage, Target: "ffmpeg"},
	}
	fake := &fakeProvisionClient{steps: steps}
	restore := overrideNewProvision(fake)
	defer restore()

	err := runUp(upCmd, nil)
	require.NoError(t, err)
	assert.Equal(t, steps, fake.ranSteps)
}

func TestRunUp_StepsErrorPropagates(t *testing.T) {
	resetUpFlags()
	fake := &fakeProvisionClient{stepsErr: assert.AnError}
	restore := overrideNewProvision(fake)
	defer restore()

	err := runUp(upCmd, nil)
	require.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, fake.ranSteps, "Run must not be called when Steps fails")
}

func TestRunUp_RunErrorPropagates(t *testing.T) {
	resetUpFlags()
	installErr := &provision.InstallError{
		Step:     "install ffmpeg",
		Kind:     provision.SystemPackageInstallFailure,
		ExitCode: 100,
	}
	fake := &fakeProvisionClient{
		steps:  []provision.InstallStep{{Name: "install ffmpeg", Kind: provision.KindSystemPackage, Target: "ffmpeg"}},
		runErr: installErr,
	}
	restore := overrideNewProvision(fake)
	defer restore()

	err := runUp(upCmd, nil)
	var got *provision.InstallError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 100, got.ExitCode)
}

func TestRunUp_DryRunAndVerifyFlags(t *testing.T) {
	resetUpFlags()
	upDryRun = true
	upVerify = true
	defer resetUpFlags()

	fake := &fakeProvisionClient{
		steps: []provision.InstallStep{{Name: "install ffmpeg", Kind: provision.KindSystemPackage, Target: "ffmpeg"}},
	}
	restore := overrideNewProvision(fake)
	defer restore()

	require.NoError(t, runUp(upCmd, nil))
	assert.True(t, fake.dryRun)
	assert.True(t, fake.verify)
}
