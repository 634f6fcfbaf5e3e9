package main

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Swapped out in tests.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	promptAPIKey    = promptAPIKeyInteractive
)

func promptAPIKeyInteractive() (string, error) {
	var key string

	err := huh.NewInput().
		Title("API key").
		Description("No API key is configured. It is used for this run only; save it with 'sensei config init' or SENSEI_API_KEY.").
		EchoMode(huh.EchoModePassword).
		Value(&key).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("API key cannot be empty")
			}

			return nil
		}).
		Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(key), nil
}
