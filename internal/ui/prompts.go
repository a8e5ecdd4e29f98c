package ui

import (
	"fmt"
	"os"
	"regexp"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsInteractive reports whether both stdin and stdout are terminals
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// PromptIdentity asks for the author name and email of a new profile.
// Values already provided are used as defaults.
func PromptIdentity(name, email string) (string, string, error) {
	namePrompt := &survey.Input{
		Message: "Full name:",
		Help:    "Your full name for Git commits (e.g., Jane Doe)",
		Default: name,
	}
	if err := survey.AskOne(namePrompt, &name, survey.WithValidator(survey.Required)); err != nil {
		return "", "", err
	}

	emailPrompt := &survey.Input{
		Message: "Email address:",
		Help:    "Your email for Git commits (e.g., jane@example.com)",
		Default: email,
	}
	emailValidator := func(val interface{}) error {
		if str, ok := val.(string); ok && !IsValidEmail(str) {
			return fmt.Errorf("invalid email format")
		}
		return nil
	}
	if err := survey.AskOne(emailPrompt, &email, survey.WithValidator(survey.Required), survey.WithValidator(emailValidator)); err != nil {
		return "", "", err
	}

	return name, email, nil
}

// PromptConfirmation prompts for yes/no confirmation
func PromptConfirmation(message string) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}

// IsValidEmail checks if email format looks like an address
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
