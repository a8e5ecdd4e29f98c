package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/identity"
	"github.com/byterings/figgit/internal/ui"
	"github.com/spf13/cobra"
)

type setOptions struct {
	user          string
	email         string
	signingKey    string
	entries       []string
	unset         []string
	patterns      []string
	resetPatterns bool
}

func newSetCmd(a *app) *cobra.Command {
	opts := &setOptions{}
	cmd := &cobra.Command{
		Use:     "set <name>",
		Aliases: []string{"new", "update"},
		Short:   "Create or update a profile",
		Long: `Create a profile, or update the fields given on the command line of an
existing one. Creating a profile requires a user name and an email; when
running in a terminal figgit asks for whatever is missing.`,
		Example: `  # Create a profile
  figgit set work --user "Jane Doe" --email jane@corp.example

  # Add arbitrary git config and a remote pattern
  figgit set work --config-entry commit.gpgsign=true --pattern 'github.com/corp/*'

  # Drop a key again
  figgit set work --unset commit.gpgsign`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSet(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "Author name (user.name)")
	cmd.Flags().StringVarP(&opts.email, "email", "e", "", "Author email (user.email)")
	cmd.Flags().StringVarP(&opts.signingKey, "signing-key", "k", "", "Signing key (user.signingkey), empty to clear")
	cmd.Flags().StringArrayVarP(&opts.entries, "config-entry", "c", nil, "Extra git config entry as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.unset, "unset", nil, "Remove an extra git config key (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.patterns, "pattern", "p", nil, "Remote URL pattern selecting this profile (repeatable)")
	cmd.Flags().BoolVar(&opts.resetPatterns, "reset-patterns", false, "Replace existing patterns instead of adding to them")
	return cmd
}

func (a *app) runSet(cmd *cobra.Command, name string, opts *setOptions) error {
	if err := config.ValidateName(name); err != nil {
		return err
	}
	cfg, err := a.load()
	if err != nil {
		return err
	}

	profile, err := cfg.Get(name)
	creating := errors.Is(err, config.ErrNotFound)
	if err != nil && !creating {
		return err
	}
	if creating {
		profile = config.Profile{Name: name}
	}

	flags := cmd.Flags()
	if flags.Changed("user") {
		profile.UserName = opts.user
	}
	if flags.Changed("email") {
		profile.Email = opts.email
	}
	if flags.Changed("signing-key") {
		profile.SigningKey = strings.TrimSpace(opts.signingKey)
	}

	if creating && (profile.UserName == "" || profile.Email == "") && ui.IsInteractive() {
		profile.UserName, profile.Email, err = ui.PromptIdentity(profile.UserName, profile.Email)
		if err != nil {
			return err
		}
	}

	for _, entry := range opts.entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("%w: %q (expected key=value)", config.ErrInvalidKey, entry)
		}
		key, err := config.CanonicalKey(strings.TrimSpace(key))
		if err != nil {
			return err
		}
		if profile.Extra == nil {
			profile.Extra = make(map[string]string)
		}
		profile.Extra[key] = value
	}

	for _, key := range opts.unset {
		ck, err := config.CanonicalKey(strings.TrimSpace(key))
		if err != nil {
			return err
		}
		if ck == config.KeySigningKey {
			profile.SigningKey = ""
			continue
		}
		if _, ok := profile.Extra[ck]; !ok {
			a.printer.Warning("Key '%s' is not set on profile '%s'", ck, name)
		}
		delete(profile.Extra, ck)
	}

	for _, pattern := range opts.patterns {
		if _, err := identity.CompilePattern(pattern); err != nil {
			return err
		}
	}
	profile.AddPatterns(opts.patterns, opts.resetPatterns)

	if profile.Email != "" && !ui.IsValidEmail(profile.Email) {
		a.printer.Warning("'%s' does not look like an email address", profile.Email)
	}

	if err := cfg.Put(profile); err != nil {
		return err
	}
	if err := a.save(cfg); err != nil {
		return err
	}

	if creating {
		a.printer.Success("Created profile '%s'", name)
		a.printer.Info("Bind a directory to it with: figgit bind %s <path>", name)
	} else {
		a.printer.Success("Updated profile '%s'", name)
	}
	return nil
}
