package cli

import "fmt"

// ExitError represents a command execution failure with a specific exit code.
//
// This error type allows Cobra RunE functions to signal non-zero exit codes
// without calling os.Exit() directly, enabling testable CLI behavior. When a
// command fails, it returns NewExitError(code), which propagates up to
// [App.Run] where [IsExitError] extracts the code.
//
// Only invalid flag combinations and failed preflight checks produce
// non-zero exit codes; a failed movement sequence still exits 0 after its
// failure summary.
type ExitError struct {
	// Code is the exit code to return to the shell.
	Code int
}

// Error implements the error interface, returning "exit status N" to match
// the standard os/exec format.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError checks if an error is an [ExitError] and extracts its exit
// code. Returns (0, false) for nil or non-ExitError errors.
func IsExitError(err error) (int, bool) {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code, true
	}
	return 0, false
}
