package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// Prompter asks the user for input on the terminal
type Prompter interface {
	Interactive() bool
	Password(label string) (string, error)
	Confirm(label string) (bool, error)
}

// TerminalPrompter prompts on stdin/stderr
type TerminalPrompter struct{}

// Interactive reports whether stdin is a terminal (not piped)
func (TerminalPrompter) Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Password reads a line without echoing it
func (TerminalPrompter) Password(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// Confirm asks a y/N question
func (TerminalPrompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	}
	return false, fmt.Errorf("confirmation cancelled: %w", err)
}

// secret returns value, or prompts for it when empty and stdin is a terminal
func secret(p Prompter, value, label, hint string) (string, error) {
	if value != "" {
		return value, nil
	}
	if p == nil || !p.Interactive() {
		return "", fmt.Errorf("%s is required in non-interactive mode (%s)", label, hint)
	}
	return p.Password(label)
}
