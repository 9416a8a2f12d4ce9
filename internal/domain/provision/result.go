package provision

import "time"

// StepResult captures the outcome of executing a single install step.
// Results are retained for the duration of the run for reporting.
type StepResult struct {
	step     InstallStep
	status   Status
	exitCode int
	output   string
	err      error
	duration time.Duration
}

// NewStepResult creates a new StepResult.
func NewStepResult(step InstallStep, status Status, err error) StepResult {
	return StepResult{
		step:   step,
		status: status,
		err:    err,
	}
}

// Step returns the step that was executed.
func (r StepResult) Step() InstallStep {
	return r.step
}

// Status returns the final status of the step.
func (r StepResult) Status() Status {
	return r.status
}

// ExitCode returns the exit code of the step's installer invocation.
func (r StepResult) ExitCode() int {
	return r.exitCode
}

// Output returns the diagnostic output captured from the installer.
func (r StepResult) Output() string {
	return r.output
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Success returns true if the step completed successfully.
func (r StepResult) Success() bool {
	return r.status == StatusSucceeded
}

// Skipped returns true if the step was not invoked.
func (r StepResult) Skipped() bool {
	return r.status == StatusSkipped
}

// WithExitCode returns a new StepResult with exit code set.
func (r StepResult) WithExitCode(code int) StepResult {
	r.exitCode = code
	return r
}

// WithOutput returns a new StepResult with captured output set.
func (r StepResult) WithOutput(output string) StepResult {
	r.output = output
	return r
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}
