package system

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor handles execution of external commands
type Executor struct {
	debug bool
}

// NewExecutor creates a new executor
func NewExecutor(debug bool) *Executor {
	return &Executor{
		debug: debug,
	}
}

// InvocationError reports a command that could not be started at all
// (missing binary, permission problem). A command that starts and exits
// non-zero is not an InvocationError.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("failed to invoke %s: %v", e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// RunSplit executes a command and captures stdout and stderr separately.
// The exit status is deliberately ignored: the forensic tools report
// their outcome on the output streams, and callers classify success from
// the captured text. Only a failure to start the process is an error.
func (e *Executor) RunSplit(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)

	if e.debug {
		fmt.Printf("[DEBUG] Executing: %s\n", cmd.String())
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", "", &InvocationError{Tool: name, Err: err}
		}
	}

	return stdout.String(), stderr.String(), nil
}

// CommandExists checks if a command is available in PATH
func (e *Executor) CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// CheckDependencies verifies required commands are available
func (e *Executor) CheckDependencies(deps []string) error {
	var missing []string
	for _, dep := range deps {
		if !e.CommandExists(dep) {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required commands: %s",
			strings.Join(missing, ", "))
	}
	return nil
}
