package system

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunSplit(t *testing.T) {
	e := NewExecutor(false)

	stdout, stderr, err := e.RunSplit("/bin/sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("RunSplit: %v", err)
	}
	if stdout != "out\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if stderr != "err\n" {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunSplitIgnoresExitStatus(t *testing.T) {
	e := NewExecutor(false)

	stdout, stderr, err := e.RunSplit("/bin/sh", "-c", "echo partial; echo broken >&2; exit 3")
	if err != nil {
		t.Fatalf("non-zero exit should not be an error, got: %v", err)
	}
	if stdout != "partial\n" || stderr != "broken\n" {
		t.Errorf("streams = %q / %q", stdout, stderr)
	}
}

func TestRunSplitMissingBinary(t *testing.T) {
	e := NewExecutor(false)

	missing := filepath.Join(t.TempDir(), "no-such-tool")
	_, _, err := e.RunSplit(missing)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}

	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error %v is not an InvocationError", err)
	}
	if invErr.Tool != missing {
		t.Errorf("Tool = %q, want %q", invErr.Tool, missing)
	}
}

func TestCheckDependencies(t *testing.T) {
	e := NewExecutor(false)

	if err := e.CheckDependencies([]string{"sh"}); err != nil {
		t.Errorf("sh should be present: %v", err)
	}

	err := e.CheckDependencies([]string{"sh", "definitely-not-a-real-tool-470f"})
	if err == nil {
		t.Fatal("expected error for missing dependency")
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-tool-470f") {
		t.Errorf("error %q does not name the missing tool", err)
	}
}
