// Package prompt provides interactive terminal prompts for casterd's CLI,
// used by `casterd mounts add` to collect a mountpoint, username, and
// password without requiring the operator to hand-edit the mount
// authentication file.
package prompt

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if err == promptui.ErrInterrupt || err == promptui.ErrAbort {
		return ErrAborted
	}
	return err
}

// InputRequired prompts for non-empty text input.
func InputRequired(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if input == "" {
				return fmt.Errorf("value is required")
			}
			return nil
		},
	}
	result, err := p.Run()
	return result, wrapError(err)
}

// Password prompts for a password with masked input and a minimum length.
func Password(label string, minLength int) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) < minLength {
				return fmt.Errorf("password must be at least %d characters", minLength)
			}
			return nil
		},
	}
	result, err := p.Run()
	return result, wrapError(err)
}

// Confirm prompts for yes/no confirmation, defaulting to no.
func Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := p.Run()
	if err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return false, wrapError(err)
	}
	return true, nil
}
