package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/julianstephens/eatthefrog/internal/focus"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("invalid task"), expected: "Error: invalid task"},
		{
			name:     "wrapped error",
			err:      errors.New("persist record: database is locked"),
			expected: "Error: persist record: database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestFormatAddsSessionHints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nothing running",
			err:  fmt.Errorf("%w: nothing to complete", focus.ErrNoActiveTask),
			want: "Start a frog with `frog start <task>`.",
		},
		{
			name: "shield denied",
			err:  fmt.Errorf("block apps: %w", focus.ErrAuthorizationDenied),
			want: "shield.state_path",
		},
		{
			name: "store unavailable",
			err:  fmt.Errorf("%w: disk full", focus.ErrPersistence),
			want: "frog doctor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.err)
			lines := strings.Split(got, "\n")
			if len(lines) != 2 || !strings.HasPrefix(lines[0], "Error: ") {
				t.Fatalf("Format() = %q, want error line plus hint", got)
			}
			if !strings.Contains(lines[1], tt.want) {
				t.Errorf("hint = %q, want it to mention %q", lines[1], tt.want)
			}
		})
	}

	if Hint(errors.New("plain failure")) != "" {
		t.Error("unrelated errors should have no hint")
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("duration must be positive, got %d minutes", -5)
	want := "Error: duration must be positive, got -5 minutes"
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

// TestFatal runs Fatal in a subprocess and checks the exit code and stderr.
func TestFatal(t *testing.T) {
	if os.Getenv("FROG_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "FROG_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	e, ok := err.(*exec.ExitError)
	if !ok || e.Success() {
		t.Fatalf("Fatal() did not exit with error: %v", err)
	}
	if e.ExitCode() != 1 {
		t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
	}
	if !strings.Contains(stderr.String(), "Error: test error") {
		t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("FROG_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "FROG_TEST_FATAL_NIL=1")
	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
