package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptTaskName asks for the frog when `frog start` is run without one.
func PromptTaskName() (string, error) {
	var name string
	err := huh.NewInput().
		Title("What's your frog today?").
		Description("The one task you've been putting off.").
		Value(&name).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("task name cannot be empty")
			}
			return nil
		}).
		Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

// Confirm shows a yes/no prompt. An aborted prompt counts as no.
func Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
