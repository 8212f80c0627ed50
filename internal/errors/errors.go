// Package errors renders command failures for the terminal. Failures from
// the session engine get a hint pointing at the command that gets the user
// unstuck.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/logger"
)

var hints = []struct {
	err  error
	hint string
}{
	{focus.ErrNoActiveTask, "Start a frog with `frog start <task>`."},
	{focus.ErrInvalidTask, "A frog needs a name and at least one minute."},
	{focus.ErrAuthorizationDenied, "frog can't manage the shield; check shield.state_path in the config."},
	{focus.ErrPersistence, "Run `frog doctor` to check the database."},
	{focus.ErrSchedulingFailure, "Notices aren't reaching the tray; `frog doctor` shows its status."},
}

// Hint returns the follow-up suggestion for err, or "" if there is none.
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.err) {
			return h.hint
		}
	}
	return ""
}

// Format renders err with an "Error: " prefix and, for session failures,
// a hint on the next line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n" + hint
	}
	return msg
}

// Formatf is Format for a message built from a format string.
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err and exits with status 1. A nil err is ignored.
func Fatal(err error) {
	if err != nil {
		logger.Error("frog command failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}

func Fatalf(format string, args ...interface{}) {
	logger.Error("frog command failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
